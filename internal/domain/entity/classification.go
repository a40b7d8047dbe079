package entity

// Classification результат классификации одной области
type Classification struct {
	ClassIndex   int     // индекс класса модели, 0..7
	Confidence   float64 // softmax на выбранном классе
	Unclassified bool    // область не удалось декодировать или классифицировать
}

// UnclassifiedResult безопасное значение для области, которую не удалось обработать.
func UnclassifiedResult() Classification {
	return Classification{ClassIndex: 0, Confidence: 0, Unclassified: true}
}

// Category возвращает категорию по фиксированному отображению индексов
func (c Classification) Category() Category {
	return CategoryFor(c.ClassIndex)
}
