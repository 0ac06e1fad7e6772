package finance

import (
	"encoding/json"
	"fmt"

	"github.com/shalomhq/shalom/internal/fieldmap"
	"github.com/shalomhq/shalom/internal/types"
)

// The export file format uses camelCase keys, matching what clients of the
// original application already hold; storage and the API use snake_case.
// fieldmap bridges the two.

type exportFile struct {
	Transactions []map[string]any `json:"transactions"`
	Goals        []map[string]any `json:"goals"`
	Categories   []map[string]any `json:"categories"`
	Diary        []map[string]any `json:"diary"`
}

// EncodeDataset serializes a dataset into the camelCase export format.
func EncodeDataset(ds types.Dataset) ([]byte, error) {
	file := exportFile{
		Transactions: []map[string]any{},
		Goals:        []map[string]any{},
		Categories:   []map[string]any{},
		Diary:        []map[string]any{},
	}

	for _, tx := range ds.Transactions {
		m, err := toExternal(fieldmap.TransactionEntity, tx)
		if err != nil {
			return nil, err
		}
		file.Transactions = append(file.Transactions, m)
	}
	for _, g := range ds.Goals {
		m, err := toExternal(fieldmap.FinancialGoalEntity, g)
		if err != nil {
			return nil, err
		}
		file.Goals = append(file.Goals, m)
	}
	for _, c := range ds.Categories {
		m, err := toExternal(fieldmap.CategoryEntity, c)
		if err != nil {
			return nil, err
		}
		file.Categories = append(file.Categories, m)
	}
	for _, d := range ds.Diary {
		m, err := toExternal(fieldmap.DiaryEntryEntity, d)
		if err != nil {
			return nil, err
		}
		file.Diary = append(file.Diary, m)
	}

	return json.MarshalIndent(file, "", "  ")
}

// DecodeDataset parses the camelCase export format. Missing arrays decode as
// empty: importing {"transactions":[],"goals":[]} clears the dataset rather
// than erroring.
func DecodeDataset(data []byte) (types.Dataset, error) {
	var file exportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return types.Dataset{}, fmt.Errorf("parse export file: %w", err)
	}

	ds := types.Dataset{
		Transactions: []types.Transaction{},
		Goals:        []types.FinancialGoal{},
		Categories:   []types.FinanceCategory{},
		Diary:        []types.Document{},
	}

	for i, m := range file.Transactions {
		var tx types.Transaction
		if err := fromExternal(fieldmap.TransactionEntity, m, &tx); err != nil {
			return types.Dataset{}, fmt.Errorf("transaction %d: %w", i, err)
		}
		ds.Transactions = append(ds.Transactions, tx)
	}
	for i, m := range file.Goals {
		var g types.FinancialGoal
		if err := fromExternal(fieldmap.FinancialGoalEntity, m, &g); err != nil {
			return types.Dataset{}, fmt.Errorf("goal %d: %w", i, err)
		}
		ds.Goals = append(ds.Goals, g)
	}
	for i, m := range file.Categories {
		var c types.FinanceCategory
		if err := fromExternal(fieldmap.CategoryEntity, m, &c); err != nil {
			return types.Dataset{}, fmt.Errorf("category %d: %w", i, err)
		}
		ds.Categories = append(ds.Categories, c)
	}
	for i, m := range file.Diary {
		var d types.Document
		if err := fromExternal(fieldmap.DiaryEntryEntity, m, &d); err != nil {
			return types.Dataset{}, fmt.Errorf("diary entry %d: %w", i, err)
		}
		ds.Diary = append(ds.Diary, d)
	}

	return ds, nil
}

// toExternal round-trips a record through JSON to get a snake_case map, then
// remaps the keys to the external spelling.
func toExternal(entity fieldmap.Entity, record any) (map[string]any, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", entity.Name(), err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("remap %s: %w", entity.Name(), err)
	}
	return entity.FromStorage(m), nil
}

// fromExternal remaps external keys to storage spelling and decodes into the
// target record.
func fromExternal(entity fieldmap.Entity, m map[string]any, target any) error {
	raw, err := json.Marshal(entity.ToStorage(m))
	if err != nil {
		return fmt.Errorf("remap %s: %w", entity.Name(), err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode %s: %w", entity.Name(), err)
	}
	return nil
}
