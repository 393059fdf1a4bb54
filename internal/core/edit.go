package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Group identifies one of the editable row lists of a Document.
type Group int

const (
	GroupRevenue Group = iota + 1
	GroupExpenditure
	GroupFinancingIn
	GroupFinancingOut
)

var groupNames = map[Group]string{
	GroupRevenue:      "revenue",
	GroupExpenditure:  "expenditure",
	GroupFinancingIn:  "financing-in",
	GroupFinancingOut: "financing-out",
}

func (g Group) String() string {
	if s, ok := groupNames[g]; ok {
		return s
	}
	return "group(" + strconv.Itoa(int(g)) + ")"
}

// ParseGroup maps a form value ("revenue", "expenditure", "financing-in",
// "financing-out") to a Group.
func ParseGroup(s string) (Group, error) {
	s = strings.TrimSpace(s)
	for g, name := range groupNames {
		if name == s {
			return g, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGroup, s)
}

// RowTarget addresses one row list. Section is only meaningful for
// GroupExpenditure.
type RowTarget struct {
	Group   Group
	Section int
}

func Revenue() RowTarget { return RowTarget{Group: GroupRevenue} }

func Expenditure(section int) RowTarget {
	return RowTarget{Group: GroupExpenditure, Section: section}
}

func FinancingIn() RowTarget { return RowTarget{Group: GroupFinancingIn} }

func FinancingOut() RowTarget { return RowTarget{Group: GroupFinancingOut} }

// RowField is an editable column of a LineItem.
type RowField string

const (
	FieldDescription RowField = "description"
	FieldInitial     RowField = "initial"
	FieldFinal       RowField = "final"
)

func ParseRowField(s string) (RowField, error) {
	switch f := RowField(strings.TrimSpace(s)); f {
	case FieldDescription, FieldInitial, FieldFinal:
		return f, nil
	}
	return "", fmt.Errorf("%w: row field %q", ErrUnknownField, s)
}

// HeaderField is an editable text field of the Header.
type HeaderField string

const (
	HeaderVillage  HeaderField = "villageName"
	HeaderDistrict HeaderField = "districtName"
	HeaderRegency  HeaderField = "regencyName"
	HeaderHead     HeaderField = "headOfVillageName"
	HeaderYear     HeaderField = "year"
)

func ParseHeaderField(s string) (HeaderField, error) {
	switch f := HeaderField(strings.TrimSpace(s)); f {
	case HeaderVillage, HeaderDistrict, HeaderRegency, HeaderHead, HeaderYear:
		return f, nil
	}
	return "", fmt.Errorf("%w: header field %q", ErrUnknownField, s)
}

// ImageSlot is one of the four header image fields.
type ImageSlot string

const (
	SlotLogoRegency  ImageSlot = "logoRegency"
	SlotLogoMinistry ImageSlot = "logoMinistry"
	SlotHeadshot     ImageSlot = "headshot"
	SlotBackground   ImageSlot = "backgroundImage"
)

// ImageSlots lists the slots in display order.
var ImageSlots = []ImageSlot{SlotLogoRegency, SlotLogoMinistry, SlotHeadshot, SlotBackground}

func ParseImageSlot(s string) (ImageSlot, error) {
	for _, slot := range ImageSlots {
		if string(slot) == strings.TrimSpace(s) {
			return slot, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSlot, s)
}

// Image returns the reference stored in slot, or "" when it is unset.
func (h Header) Image(slot ImageSlot) string {
	switch slot {
	case SlotLogoRegency:
		return h.LogoRegency
	case SlotLogoMinistry:
		return h.LogoMinistry
	case SlotHeadshot:
		return h.Headshot
	case SlotBackground:
		return h.Background
	}
	return ""
}

// IDGenerator hands out fresh row ids.
type IDGenerator interface {
	NewID() string
}

// IDFunc adapts a function to IDGenerator.
type IDFunc func() string

func (f IDFunc) NewID() string { return f() }

// UUIDs generates random UUID row ids.
var UUIDs IDGenerator = IDFunc(func() string { return uuid.NewString() })

// NewRowDescription is the placeholder text of an added row.
const NewRowDescription = "New Item"

// Rows returns the list addressed by t. The slice is shared with doc and
// must not be written to.
func (d Document) Rows(t RowTarget) ([]LineItem, error) {
	switch t.Group {
	case GroupRevenue:
		return d.Revenue, nil
	case GroupExpenditure:
		if t.Section < 0 || t.Section >= len(d.Expenditure) {
			return nil, fmt.Errorf("%w: %d", ErrUnknownSection, t.Section)
		}
		return d.Expenditure[t.Section].Rows, nil
	case GroupFinancingIn:
		return d.Financing.In, nil
	case GroupFinancingOut:
		return d.Financing.Out, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownGroup, t.Group)
}

// withRows returns a copy of d whose list t is replaced by rows. Only the
// containers on the path to t are copied.
func (d Document) withRows(t RowTarget, rows []LineItem) Document {
	switch t.Group {
	case GroupRevenue:
		d.Revenue = rows
	case GroupExpenditure:
		sections := make([]Section, len(d.Expenditure))
		copy(sections, d.Expenditure)
		sections[t.Section].Rows = rows
		d.Expenditure = sections
	case GroupFinancingIn:
		d.Financing.In = rows
	case GroupFinancingOut:
		d.Financing.Out = rows
	}
	return d
}

// AddRow appends a zero-valued placeholder row with a fresh id to the end of
// the target list.
func AddRow(doc Document, t RowTarget, ids IDGenerator) (Document, error) {
	rows, err := doc.Rows(t)
	if err != nil {
		return doc, err
	}
	next := make([]LineItem, len(rows), len(rows)+1)
	copy(next, rows)
	next = append(next, LineItem{ID: ids.NewID(), Description: NewRowDescription})
	return doc.withRows(t, next), nil
}

// RemoveRow deletes the row at index. Remaining rows keep their ids and order.
func RemoveRow(doc Document, t RowTarget, index int) (Document, error) {
	rows, err := doc.Rows(t)
	if err != nil {
		return doc, err
	}
	if index < 0 || index >= len(rows) {
		return doc, fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, index, len(rows))
	}
	next := make([]LineItem, 0, len(rows)-1)
	next = append(next, rows[:index]...)
	next = append(next, rows[index+1:]...)
	return doc.withRows(t, next), nil
}

func replaceRow(doc Document, t RowTarget, index int, edit func(*LineItem)) (Document, error) {
	rows, err := doc.Rows(t)
	if err != nil {
		return doc, err
	}
	if index < 0 || index >= len(rows) {
		return doc, fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, index, len(rows))
	}
	next := make([]LineItem, len(rows))
	copy(next, rows)
	edit(&next[index])
	return doc.withRows(t, next), nil
}

// UpdateRowDescription replaces the description of one row.
func UpdateRowDescription(doc Document, t RowTarget, index int, desc string) (Document, error) {
	return replaceRow(doc, t, index, func(li *LineItem) { li.Description = desc })
}

// UpdateRowAmount replaces the initial or final amount of one row.
func UpdateRowAmount(doc Document, t RowTarget, index int, field RowField, v Amount) (Document, error) {
	switch field {
	case FieldInitial:
		return replaceRow(doc, t, index, func(li *LineItem) { li.Initial = v })
	case FieldFinal:
		return replaceRow(doc, t, index, func(li *LineItem) { li.Final = v })
	}
	return doc, fmt.Errorf("%w: amount field %q", ErrUnknownField, field)
}

// UpdateHeader replaces one header text field. The year must be an integer.
func UpdateHeader(doc Document, field HeaderField, value string) (Document, error) {
	h := doc.Header
	switch field {
	case HeaderVillage:
		h.VillageName = value
	case HeaderDistrict:
		h.DistrictName = value
	case HeaderRegency:
		h.RegencyName = value
	case HeaderHead:
		h.HeadOfVillageName = value
	case HeaderYear:
		y, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return doc, fmt.Errorf("%w: %q", ErrInvalidYear, value)
		}
		h.Year = y
	default:
		return doc, fmt.Errorf("%w: header field %q", ErrUnknownField, field)
	}
	doc.Header = h
	return doc, nil
}

// SetImage stores ref in slot. An empty ref clears the slot so the renderer
// falls back to the placeholder.
func SetImage(doc Document, slot ImageSlot, ref string) (Document, error) {
	h := doc.Header
	switch slot {
	case SlotLogoRegency:
		h.LogoRegency = ref
	case SlotLogoMinistry:
		h.LogoMinistry = ref
	case SlotHeadshot:
		h.Headshot = ref
	case SlotBackground:
		h.Background = ref
	default:
		return doc, fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	doc.Header = h
	return doc, nil
}
