package models

// Display is the human-facing metadata attached to an enum value.
type Display struct {
	Label       string `json:"label"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

// EnumOption is one selectable value rendered by the presentation layer.
type EnumOption struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

const defaultColor = "gray"

// displayTable keeps declaration order alongside the lookup.
type displayTable[T ~string] struct {
	order  []T
	values map[T]Display
}

type displayEntry[T ~string] struct {
	value T
	meta  Display
}

func newDisplayTable[T ~string](entries ...displayEntry[T]) displayTable[T] {
	t := displayTable[T]{order: make([]T, 0, len(entries)), values: make(map[T]Display, len(entries))}
	for _, e := range entries {
		t.order = append(t.order, e.value)
		t.values[e.value] = e.meta
	}
	return t
}

func entry[T ~string](value T, label, color string) displayEntry[T] {
	return displayEntry[T]{value: value, meta: Display{Label: label, Color: color}}
}

func described[T ~string](value T, label, color, description string) displayEntry[T] {
	return displayEntry[T]{value: value, meta: Display{Label: label, Color: color, Description: description}}
}

// lookup never returns an empty label: unknown values render as their raw code.
func (t displayTable[T]) lookup(v T) Display {
	if d, ok := t.values[v]; ok {
		return d
	}
	return Display{Label: string(v), Color: defaultColor}
}

func (t displayTable[T]) valid(v T) bool {
	_, ok := t.values[v]
	return ok
}

func (t displayTable[T]) options() []EnumOption {
	out := make([]EnumOption, 0, len(t.order))
	for _, v := range t.order {
		d := t.values[v]
		out = append(out, EnumOption{Value: string(v), Label: d.Label, Color: d.Color, Description: d.Description})
	}
	return out
}

// EnumCatalog lists every display enum by its public name.
func EnumCatalog() map[string][]EnumOption {
	return map[string][]EnumOption{
		"student-status":            studentStatusDisplay.options(),
		"withdrawal-status":         withdrawalStatusDisplay.options(),
		"withdrawal-reason":         withdrawalReasonDisplay.options(),
		"medication-status":         medicationStatusDisplay.options(),
		"medication-route":          medicationRouteDisplay.options(),
		"api-key-status":            apiKeyStatusDisplay.options(),
		"plan504-status":            plan504StatusDisplay.options(),
		"accommodation-category":    accommodationCategoryDisplay.options(),
		"gifted-plan-status":        giftedPlanStatusDisplay.options(),
		"iep-status":                iepStatusDisplay.options(),
		"verification-status":       verificationStatusDisplay.options(),
		"verification-purpose":      verificationPurposeDisplay.options(),
		"lock-status":               lockStatusDisplay.options(),
		"fee-status":                feeStatusDisplay.options(),
		"bus-route-status":          busRouteStatusDisplay.options(),
		"crisis-status":             crisisStatusDisplay.options(),
		"crisis-severity":           crisisSeverityDisplay.options(),
		"transfer-status":           transferStatusDisplay.options(),
		"ell-service-status":        ellServiceStatusDisplay.options(),
		"ell-proficiency-level":     ellProficiencyDisplay.options(),
		"due-status":                dueStatusDisplay.options(),
		"instructional-period-type": periodTypeDisplay.options(),
		"user-role":                 userRoleDisplay.options(),
	}
}
