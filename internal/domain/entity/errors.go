package entity

import "errors"

var (
	// ErrInput исходное изображение не читается - проверка целиком невозможна.
	ErrInput = errors.New("input image is unreadable")

	// ErrModelLoad модель не загружена - классификация недоступна.
	ErrModelLoad = errors.New("classifier model is not loaded")

	// ErrRegionDecode область не удалось подготовить к классификации.
	ErrRegionDecode = errors.New("region cannot be decoded")

	// ErrPersistence ошибка внешнего хранилища.
	ErrPersistence = errors.New("persistence failed")

	// ErrNotFound запись отсутствует. Пустой список ошибкой не считается.
	ErrNotFound = errors.New("record not found")
)
