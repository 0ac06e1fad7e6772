// Package fieldmap translates between the camelCase export/import JSON format
// and the snake_case storage/API format using explicit per-entity field
// tables. No runtime string transformation: a key either appears in the table
// or passes through unchanged.
package fieldmap

// Field pairs one external (camelCase) key with its storage (snake_case) key.
type Field struct {
	Camel string
	Snake string
}

// Entity is an ordered field table for one exported record type.
type Entity struct {
	name    string
	toSnake map[string]string
	toCamel map[string]string
}

// NewEntity builds an entity table from field pairs.
func NewEntity(name string, fields []Field) Entity {
	e := Entity{
		name:    name,
		toSnake: make(map[string]string, len(fields)),
		toCamel: make(map[string]string, len(fields)),
	}
	for _, f := range fields {
		e.toSnake[f.Camel] = f.Snake
		e.toCamel[f.Snake] = f.Camel
	}
	return e
}

// Name returns the entity's name.
func (e Entity) Name() string { return e.name }

// ToStorage converts external keys to storage keys and replaces empty-string
// values with nil (the storage "no value" convention). Unknown keys pass
// through unchanged.
func (e Entity) ToStorage(obj map[string]any) map[string]any {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		key := k
		if snake, ok := e.toSnake[k]; ok {
			key = snake
		}
		if s, ok := v.(string); ok && s == "" {
			out[key] = nil
			continue
		}
		out[key] = v
	}
	return out
}

// FromStorage converts storage keys back to external keys. Values are left
// untouched. Unknown keys pass through unchanged.
func (e Entity) FromStorage(obj map[string]any) map[string]any {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		key := k
		if camel, ok := e.toCamel[k]; ok {
			key = camel
		}
		out[key] = v
	}
	return out
}

// Export entity tables. Only fields whose two spellings differ need a row;
// single-word fields round-trip via pass-through.
var (
	TransactionEntity = NewEntity("transaction", []Field{
		{Camel: "userId", Snake: "user_id"},
		{Camel: "createdAt", Snake: "created_at"},
	})

	FinancialGoalEntity = NewEntity("financialGoal", []Field{
		{Camel: "userId", Snake: "user_id"},
		{Camel: "targetAmount", Snake: "target_amount"},
		{Camel: "currentAmount", Snake: "current_amount"},
		{Camel: "createdAt", Snake: "created_at"},
	})

	CategoryEntity = NewEntity("category", []Field{
		{Camel: "userId", Snake: "user_id"},
		{Camel: "createdAt", Snake: "created_at"},
	})

	DiaryEntryEntity = NewEntity("diaryEntry", []Field{
		{Camel: "userId", Snake: "user_id"},
		{Camel: "updatedAt", Snake: "updated_at"},
	})
)
