package entity

// UserState состояние оператора в диалоге с ботом
type UserState string

const (
	StateMainMenu      UserState = "main_menu"      // В главном меню
	StateAwaitingPhoto UserState = "awaiting_photo" // Ожидание снимка плёнки
	StateAwaitingCrop  UserState = "awaiting_crop"  // Ожидание фрагмента для уточнения
	StateProcessing    UserState = "processing"     // Идёт проверка
)

// User оператор, работающий через бота
type User struct {
	ID           int64     // Telegram User ID
	ChatID       int64     // Telegram Chat ID
	State        UserState // Текущее состояние
	LocationView bool      // присылать карту расположения вместо разметки по категориям
	LastPicture  int64     // ID последней сохранённой проверки
}

// NewUser создаёт оператора с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние
func (u *User) SetState(state UserState) {
	u.State = state
}

// Busy сообщает, что у оператора уже идёт проверка
func (u *User) Busy() bool {
	return u.State == StateProcessing
}
