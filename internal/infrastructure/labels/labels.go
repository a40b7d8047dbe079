package labels

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"film-inspector/internal/domain/entity"
)

// Table подписи классов модели по индексу. Только для отображения:
// категория всегда определяется по индексу.
type Table map[int]string

// Default подписи, с которыми обучалась модель.
func Default() Table {
	t := make(Table, entity.NumClasses)
	for i := 0; i < entity.NumClasses; i++ {
		t[i] = fmt.Sprintf("class%dOK", i+1)
	}
	t[entity.ClassCoatingGap] = "class5NG"
	t[entity.ClassScratch] = "class7NG"
	return t
}

// Load читает файл вида {"0": "class1OK", ...}.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	t := make(Table, len(raw))
	for k, v := range raw {
		i, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("parse %s: class key %q: %w", path, k, err)
		}
		t[i] = v
	}
	return t, nil
}

// Label подпись класса; для неизвестного индекса формируется заглушка.
func (t Table) Label(classIndex int) string {
	if name, ok := t[classIndex]; ok {
		return name
	}
	return fmt.Sprintf("unknown class %d", classIndex)
}

// Indices индексы таблицы по возрастанию.
func (t Table) Indices() []int {
	out := make([]int, 0, len(t))
	for i := range t {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Validate сверяет подписи с отображением индексов в категории:
// "NG" должно стоять ровно у дефектных классов, 5NG у непрокраса, 7NG у царапины.
func Validate(t Table) error {
	var errs []error
	for i := 0; i < entity.NumClasses; i++ {
		name, ok := t[i]
		if !ok {
			errs = append(errs, fmt.Errorf("class %d has no label", i))
			continue
		}

		category := entity.CategoryFor(i)
		if strings.Contains(name, "NG") != category.IsDefect() {
			errs = append(errs, fmt.Errorf("class %d label %q does not match category %s", i, name, category))
			continue
		}
		if strings.Contains(name, "5NG") && category != entity.CategoryCoatingGap {
			errs = append(errs, fmt.Errorf("class %d label %q expected at index %d", i, name, entity.ClassCoatingGap))
		}
		if strings.Contains(name, "7NG") && category != entity.CategoryScratch {
			errs = append(errs, fmt.Errorf("class %d label %q expected at index %d", i, name, entity.ClassScratch))
		}
	}
	return errors.Join(errs...)
}
