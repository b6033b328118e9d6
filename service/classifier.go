package service

import (
	"slices"
	"strings"

	"wheelhouse/models"
)

const unrecognizedShape = "unrecognized wager shape"

// Classify derives the wager type of a request from its selection alone.
// The declared type is not consulted; see CheckDeclaredType.
func Classify(req models.WagerRequest) (models.Classification, error) {
	target := strings.TrimSpace(req.Target)
	switch {
	case len(req.Numbers) > 0 && target != "":
		return models.Classification{}, reject(ErrValidation, -1, "give either numbers or a target, not both")
	case target != "":
		return ClassifyTarget(target)
	case len(req.Numbers) > 0:
		return ClassifySelection(req.Numbers)
	}

	// "red", "odd", ... may be sent as a bare type with no selection
	if t, ok := models.ParseWagerType(string(req.Type)); ok && !t.Inside() && t != models.WagerTypeDozen && t != models.WagerTypeColumn {
		return ClassifyTarget(string(t))
	}
	return models.Classification{}, reject(ErrValidation, -1, "wager has no selection")
}

// CheckDeclaredType compares a client-declared type with the derived one.
// An empty declaration is accepted.
func CheckDeclaredType(declared models.WagerType, cls models.Classification) error {
	if declared == "" {
		return nil
	}
	t, ok := models.ParseWagerType(string(declared))
	if !ok {
		return reject(ErrValidation, -1, "unknown wager type %q", declared)
	}
	if t != cls.Type {
		return reject(ErrTypeMismatch, -1, "declared %s but selection is a %s", t, cls.Type)
	}
	return nil
}

// ClassifySelection maps a set of pockets to the wager it forms on the table.
// Input order does not matter.
func ClassifySelection(numbers []int) (models.Classification, error) {
	s, err := normalizeSelection(numbers)
	if err != nil {
		return models.Classification{}, err
	}

	switch len(s) {
	case 1:
		return inside(models.WagerTypeStraight, s), nil
	case 2:
		if isSplit(s[0], s[1]) {
			return inside(models.WagerTypeSplit, s), nil
		}
	case 3:
		if s[0] > 0 && models.GridRow(s[0]) == 0 && isRun(s, s[0]) {
			return inside(models.WagerTypeStreet, s), nil
		}
	case 4:
		n := s[0]
		if n > 0 && models.GridRow(n) < models.GridRows-1 &&
			s[1] == n+1 && s[2] == n+models.GridRows && s[3] == n+models.GridRows+1 {
			return inside(models.WagerTypeCorner, s), nil
		}
	case 6:
		if s[0] > 0 && models.GridRow(s[0]) == 0 && isRun(s, s[0]) {
			return inside(models.WagerTypeSixLine, s), nil
		}
	case 12:
		if d := s[0]/12 + 1; s[0] > 0 && s[0] == 12*(d-1)+1 && isRun(s, s[0]) {
			return outside(models.WagerTypeDozen, models.DozenTarget(d)), nil
		}
		if c := models.PocketColumnBet(s[0]); c > 0 && isStep(s, s[0], models.GridRows) {
			return outside(models.WagerTypeColumn, models.ColumnTarget(c)), nil
		}
	case 18:
		if s[0] == 1 && isRun(s, 1) {
			return outside(models.WagerTypeLow, models.TargetLow), nil
		}
		if s[0] == 19 && isRun(s, 19) {
			return outside(models.WagerTypeHigh, models.TargetHigh), nil
		}
	}
	return models.Classification{}, reject(ErrShapeRejected, -1, unrecognizedShape)
}

// ClassifyTarget resolves a symbolic outside-bet identifier
func ClassifyTarget(target string) (models.Classification, error) {
	id := strings.ToLower(strings.TrimSpace(target))
	switch id {
	case models.TargetRed:
		return outside(models.WagerTypeRed, id), nil
	case models.TargetBlack:
		return outside(models.WagerTypeBlack, id), nil
	case models.TargetEven:
		return outside(models.WagerTypeEven, id), nil
	case models.TargetOdd:
		return outside(models.WagerTypeOdd, id), nil
	case models.TargetLow:
		return outside(models.WagerTypeLow, id), nil
	case models.TargetHigh:
		return outside(models.WagerTypeHigh, id), nil
	}
	for i := 1; i <= 3; i++ {
		switch id {
		case models.DozenTarget(i):
			return outside(models.WagerTypeDozen, id), nil
		case models.ColumnTarget(i):
			return outside(models.WagerTypeColumn, id), nil
		}
	}
	return models.Classification{}, reject(ErrShapeRejected, -1, "%s: %q", unrecognizedShape, target)
}

// normalizeSelection validates a selection and returns it sorted
func normalizeSelection(numbers []int) ([]int, error) {
	if len(numbers) == 0 {
		return nil, reject(ErrValidation, -1, "selection is empty")
	}
	s := slices.Clone(numbers)
	slices.Sort(s)
	for i, n := range s {
		if !models.ValidPocket(n) {
			return nil, reject(ErrValidation, -1, "pocket %d is not on the wheel", n)
		}
		if i > 0 && s[i-1] == n {
			return nil, reject(ErrValidation, -1, "pocket %d selected twice", n)
		}
	}
	return s, nil
}

// isSplit reports whether a < b are orthogonal neighbours on the grid
func isSplit(a, b int) bool {
	if a == 0 {
		return b >= 1 && b <= models.GridRows
	}
	switch b - a {
	case models.GridRows:
		return true
	case 1:
		return models.GridColumn(a) == models.GridColumn(b)
	}
	return false
}

func isRun(s []int, from int) bool {
	return isStep(s, from, 1)
}

func isStep(s []int, from, step int) bool {
	for i, n := range s {
		if n != from+i*step {
			return false
		}
	}
	return true
}

func inside(t models.WagerType, pockets []int) models.Classification {
	return models.Classification{
		Type:        t,
		PayoutRatio: t.PayoutRatio(),
		Pockets:     pockets,
	}
}

func outside(t models.WagerType, target string) models.Classification {
	return models.Classification{
		Type:        t,
		PayoutRatio: t.PayoutRatio(),
		Pockets:     models.TargetPockets(target),
		Target:      target,
	}
}
