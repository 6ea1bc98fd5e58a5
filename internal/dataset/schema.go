package dataset

import "fmt"

// SlotCount is the number of annotation slots per video.
const SlotCount = 8

// IDColumn is the identifier column shared by every table type.
const IDColumn = "id_video"

// Schema describes the fixed column layout of a table: the identifier column
// followed by eight positional slot columns.
type Schema struct {
	slots []string
}

func newSchema(suffix string) Schema {
	slots := make([]string, 0, SlotCount)
	for i := 1; i <= SlotCount; i++ {
		slots = append(slots, fmt.Sprintf("c%d_%s", i, suffix))
	}
	return Schema{slots: slots}
}

// DescriptionSchema returns the schema for gesture description tables
// (id_video, c1_description .. c8_description).
func DescriptionSchema() Schema {
	return newSchema("description")
}

// CommandSchema returns the schema for command prediction tables
// (id_video, c1_command .. c8_command).
func CommandSchema() Schema {
	return newSchema("command")
}

// Columns returns the full column list in serialization order.
func (s Schema) Columns() []string {
	columns := make([]string, 0, len(s.slots)+1)
	columns = append(columns, IDColumn)
	columns = append(columns, s.slots...)
	return columns
}

// Slots returns the slot columns in positional order.
func (s Schema) Slots() []string {
	slots := make([]string, len(s.slots))
	copy(slots, s.slots)
	return slots
}

// Slot returns the column name for the 1-based slot position.
func (s Schema) Slot(n int) (string, error) {
	if n < 1 || n > len(s.slots) {
		return "", fmt.Errorf("dataset: slot %d out of range 1..%d", n, len(s.slots))
	}
	return s.slots[n-1], nil
}

// HasSlot reports whether column is one of the schema's slot columns.
func (s Schema) HasSlot(column string) bool {
	for _, slot := range s.slots {
		if slot == column {
			return true
		}
	}
	return false
}
