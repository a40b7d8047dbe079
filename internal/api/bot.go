package telegram

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	app "film-inspector/internal/application"
	"film-inspector/internal/container"
	"film-inspector/internal/domain/entity"
	"film-inspector/internal/infrastructure/vision"
)

const (
	msgStart = `👋 Привет! Я бот для поиска дефектов на снимках сепараторной плёнки.

📸 Отправьте снимок плёнки, и я найду царапины и непрокрасы.

📋 Команды:
/check — проверить снимок
/refine — уточнить дефекты на фрагменте
/locate — переключить вид результата
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте снимок плёнки (лучше файлом, без сжатия)
2️⃣ Бот найдёт тёмные области и классифицирует их
3️⃣ Вы получите сводку и снимок с разметкой

🟩 зелёная рамка — царапина (7NG)
🟥 красная рамка — непрокрас (5NG)

📋 Команды:
/check — проверить снимок
/refine — строгий поиск на фрагменте
/locate — все дефекты одним цветом / по категориям
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте снимок плёнки для проверки."
	msgAwaitingCrop    = "🔍 Отправьте фрагмент снимка для уточнённого поиска."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте снимок плёнки."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgBusy            = "⏳ Предыдущий снимок ещё обрабатывается."
	msgNoDefects       = "✅ Дефекты не обнаружены."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте другой снимок."
	msgNoModel         = "⚠️ Модель не загружена: показываю только найденные области."
	msgLocationOn      = "🗺 Результат: все дефекты одним цветом."
	msgLocationOff     = "🎨 Результат: цвет по категории дефекта."
)

// Bot представляет Telegram-бота
type Bot struct {
	api        *tgbotapi.BotAPI
	users      *app.UserService
	inspection *app.InspectionService
	history    *app.HistoryService
	log        zerolog.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger := c.Logger.With().Str("component", "telegram").Logger()
	logger.Info().Str("account", api.Self.UserName).Msg("authorized")

	return &Bot{
		api:        api,
		users:      c.UserService,
		inspection: c.InspectionService,
		history:    c.HistoryService,
		log:        logger,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.log.Error().Err(err).Int64("user", msg.From.ID).Msg("get user")
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка фото или файла с изображением
	if fileID := imageFileID(msg); fileID != "" {
		b.handlePhoto(ctx, msg, user, fileID)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.setState(ctx, user, entity.StateMainMenu)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		b.setState(ctx, user, entity.StateAwaitingPhoto)
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "refine":
		b.setState(ctx, user, entity.StateAwaitingCrop)
		b.sendMessage(chatID, msgAwaitingCrop)

	case "locate":
		updated, err := b.users.ToggleLocationView(ctx, user.ID, chatID)
		if err != nil {
			b.log.Error().Err(err).Msg("toggle location view")
			return
		}
		if updated.LocationView {
			b.sendMessage(chatID, msgLocationOn)
		} else {
			b.sendMessage(chatID, msgLocationOff)
		}

	case "cancel":
		b.setState(ctx, user, entity.StateMainMenu)
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handlePhoto обрабатывает входящий снимок
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User, fileID string) {
	if user.Busy() {
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	}

	refine := user.State == entity.StateAwaitingCrop

	// Устанавливаем состояние "обработка"
	b.setState(ctx, user, entity.StateProcessing)
	defer b.setState(ctx, user, entity.StateMainMenu)

	b.sendMessage(msg.Chat.ID, msgProcessing)

	imageData, err := b.downloadFile(fileID)
	if err != nil {
		b.log.Error().Err(err).Msg("download photo")
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	img, err := vision.Decode(imageData)
	if err != nil {
		b.log.Warn().Err(err).Int("bytes", len(imageData)).Msg("decode photo")
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	switch {
	case refine:
		b.replyLocalization(ctx, msg.Chat.ID, img, true)
	case !b.inspection.ClassifierReady():
		b.sendMessage(msg.Chat.ID, msgNoModel)
		b.replyLocalization(ctx, msg.Chat.ID, img, false)
	default:
		b.replyInspection(ctx, msg, user, img, fileID)
	}
}

func (b *Bot) replyInspection(ctx context.Context, msg *tgbotapi.Message, user *entity.User, img image.Image, fileID string) {
	imageID := "telegram:" + fileID

	result, err := b.inspection.Inspect(ctx, imageID, img)
	if err != nil {
		b.log.Error().Err(err).Msg("inspect photo")
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	pictureID, err := b.history.Save(ctx, imageID, result)
	if err != nil {
		b.log.Error().Err(err).Msg("save inspection")
	} else if _, err := b.users.RememberPicture(ctx, user.ID, msg.Chat.ID, pictureID); err != nil {
		b.log.Warn().Err(err).Msg("remember picture")
	}

	b.sendMessage(msg.Chat.ID, formatSummary(result))
	if !result.HasDefects() {
		return
	}

	highlighted := b.inspection.Highlight(img, result, user.LocationView)
	b.sendImage(msg.Chat.ID, highlighted, "result.jpg")
}

func (b *Bot) replyLocalization(ctx context.Context, chatID int64, img image.Image, strict bool) {
	var (
		det *app.Detection
		err error
	)
	if strict {
		det, err = b.inspection.Refine(ctx, img, entity.BoundingBox{})
	} else {
		det, err = b.inspection.Localize(ctx, img)
	}
	if err != nil {
		b.log.Error().Err(err).Bool("strict", strict).Msg("localize photo")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	boxes := det.Localization.Boxes
	if len(boxes) == 0 {
		b.sendMessage(chatID, msgNoDefects)
		return
	}

	records := make([]entity.DefectRecord, 0, len(boxes))
	lines := make([]string, 0, len(boxes))
	for i, box := range boxes {
		// категория не важна: рисуем как расположение
		records = append(records, entity.DefectRecord{Category: entity.CategoryScratch, Box: box})
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, box.Location()))
	}

	b.sendMessage(chatID, fmt.Sprintf("🔍 Найдено областей: %d (%s)\n%s",
		len(boxes), det.Localization.Policy, strings.Join(lines, "\n")))
	b.sendImage(chatID, vision.Annotate(img, records, vision.AnnotateLocations), "location.jpg")
}

func formatSummary(result *entity.InspectionResult) string {
	if !result.HasDefects() && !result.Interrupted {
		return fmt.Sprintf("%s\nПроверено областей: %d", msgNoDefects, result.Summary.Total())
	}

	var sb strings.Builder
	sb.WriteString("📊 Результат проверки:\n")
	fmt.Fprintf(&sb, "Норма: %d\n", result.Summary.Normal)
	fmt.Fprintf(&sb, "Царапины (7NG): %d\n", result.Summary.Scratch)
	fmt.Fprintf(&sb, "Непрокрас (5NG): %d", result.Summary.CoatingGap)
	if result.Summary.Unclassified > 0 {
		fmt.Fprintf(&sb, "\nНе классифицировано: %d", result.Summary.Unclassified)
	}
	for i, rec := range result.Records {
		fmt.Fprintf(&sb, "\n%d. %s %s %.1f%%", i+1, rec.Category.ShortLabel(), rec.Box.Location(), rec.Confidence*100)
	}
	if result.Interrupted {
		sb.WriteString("\n⚠️ Проверка прервана, результат неполный.")
	}
	return sb.String()
}

// imageFileID возвращает ID снимка максимального размера или документа-изображения
func imageFileID(msg *tgbotapi.Message) string {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID
	}
	return ""
}

func (b *Bot) setState(ctx context.Context, user *entity.User, state entity.UserState) {
	updated, err := b.users.SetState(ctx, user.ID, user.ChatID, state)
	if err != nil {
		b.log.Error().Err(err).Str("state", string(state)).Msg("set user state")
		return
	}
	*user = *updated
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("download file: " + resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error().Err(err).Msg("send message")
	}
}

// sendImage отправляет изображение в JPEG
func (b *Bot) sendImage(chatID int64, img image.Image, name string) {
	data, err := vision.EncodeJPEG(img)
	if err != nil {
		b.log.Error().Err(err).Msg("encode result")
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	if _, err := b.api.Send(photo); err != nil {
		b.log.Error().Err(err).Msg("send photo")
	}
}
