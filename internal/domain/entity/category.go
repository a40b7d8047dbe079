package entity

// NumClasses количество классов во внешней модели
const NumClasses = 8

// Category итоговая категория области
type Category int

const (
	CategoryNormal     Category = iota // норма
	CategoryScratch                    // царапина (class7NG)
	CategoryCoatingGap                 // непрокрас (class5NG)
)

// Индексы дефектных классов модели.
const (
	ClassCoatingGap = 4 // class5NG
	ClassScratch    = 6 // class7NG
)

// CategoryFor переводит индекс класса модели в категорию.
// Неизвестные индексы считаются нормой.
func CategoryFor(classIndex int) Category {
	switch classIndex {
	case ClassCoatingGap:
		return CategoryCoatingGap
	case ClassScratch:
		return CategoryScratch
	default:
		return CategoryNormal
	}
}

// String возвращает машинное имя категории
func (c Category) String() string {
	switch c {
	case CategoryScratch:
		return "scratch"
	case CategoryCoatingGap:
		return "coating_gap"
	default:
		return "normal"
	}
}

// Label возвращает подпись для разметки и хранилища
func (c Category) Label() string {
	switch c {
	case CategoryScratch:
		return "scratch(class7NG)"
	case CategoryCoatingGap:
		return "coating_gap(class5NG)"
	default:
		return "normal"
	}
}

// ShortLabel короткая подпись над рамкой
func (c Category) ShortLabel() string {
	switch c {
	case CategoryScratch:
		return "scratch(7NG)"
	case CategoryCoatingGap:
		return "coating_gap(5NG)"
	default:
		return "normal"
	}
}

// IsDefect сообщает, что категория является дефектом
func (c Category) IsDefect() bool {
	return c != CategoryNormal
}
