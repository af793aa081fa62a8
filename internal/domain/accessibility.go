package domain

import (
	"strconv"
	"strings"
)

// AccessValue - значение фильтра доступности по OSM-тегу.
// Пустая строка означает, что фильтр не задан.
type AccessValue string

const (
	AccessYes     AccessValue = "yes"
	AccessNo      AccessValue = "no"
	AccessLimited AccessValue = "limited"
	AccessUnknown AccessValue = "unknown"
)

// IsSet сообщает, задан ли фильтр
func (v AccessValue) IsSet() bool {
	return v != ""
}

// Concrete сообщает, можно ли передать значение как точный фильтр
// в источник данных. Значение unknown требует локальной проверки:
// ему соответствуют и объекты без тега.
func (v AccessValue) Concrete() bool {
	return v.IsSet() && v != AccessUnknown
}

// matchesTag проверяет значение тега объекта против фильтра.
// Незаданный фильтр пропускает все. Фильтр unknown пропускает объекты
// без тега и объекты с явным значением unknown. Остальные значения
// требуют точного совпадения.
func (v AccessValue) matchesTag(tags map[string]string, key string) bool {
	if !v.IsSet() {
		return true
	}
	value, present := tags[key]
	if v == AccessUnknown {
		return !present || value == string(AccessUnknown)
	}
	return present && value == string(v)
}

// StepFreeValue - результат определения безбарьерного входа по тегам
type StepFreeValue int

const (
	StepFreeUnknown StepFreeValue = iota
	StepFreeYes
	StepFreeNo
)

var (
	stepFreeBoolKeys  = [...]string{"step_free_access", "step_free", "entrance:step_free"}
	stepFreeCountKeys = [...]string{"entrance:step_count", "step_count"}
)

// InferStepFree определяет наличие безбарьерного входа по тегам объекта.
// Сначала проверяются явные булевы теги, затем теги с числом ступеней:
// ноль ступеней означает безбарьерный вход. Теги с нераспознаваемыми
// значениями пропускаются.
func InferStepFree(tags map[string]string) StepFreeValue {
	for _, key := range stepFreeBoolKeys {
		raw, ok := tags[key]
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "yes", "true", "1":
			return StepFreeYes
		case "no", "false", "0":
			return StepFreeNo
		}
	}
	for _, key := range stepFreeCountKeys {
		raw, ok := tags[key]
		if !ok {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		if count == 0 {
			return StepFreeYes
		}
		return StepFreeNo
	}
	return StepFreeUnknown
}

// AccessibilityCriteria - критерии доступности для фильтрации объектов
type AccessibilityCriteria struct {
	Wheelchair        AccessValue
	ToiletsWheelchair AccessValue
	StepFree          *bool
}

// Matches проверяет теги объекта против всех заданных критериев.
// Требование StepFree=true отбрасывает объекты с неизвестным статусом,
// требование StepFree=false оставляет их: неизвестный статус не
// доказывает наличие ступеней.
func (c AccessibilityCriteria) Matches(tags map[string]string) bool {
	if !c.Wheelchair.matchesTag(tags, "wheelchair") {
		return false
	}
	if !c.ToiletsWheelchair.matchesTag(tags, "toilets:wheelchair") {
		return false
	}
	if c.StepFree != nil {
		inferred := InferStepFree(tags)
		if *c.StepFree && inferred != StepFreeYes {
			return false
		}
		if !*c.StepFree && inferred == StepFreeYes {
			return false
		}
	}
	return true
}
