package repo

import (
	"testing"

	"github.com/curiomuse/artefact-catalog/internal/modules/model"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func newDryRunDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	assert.NoError(t, err)
	return db
}

// buildSQL applies the constraints over a dry-run session and returns the
// generated statement and its bound vars.
func buildSQL(t *testing.T, constraints ...Constraint) (string, []interface{}) {
	q := newDryRunDB(t).Model(&model.Document{}).Where("collection = ?", "artefacts")
	for _, c := range constraints {
		var err error
		q, err = c.apply(q)
		assert.NoError(t, err)
	}

	var docs []*model.Document
	tx := q.Find(&docs)
	assert.NoError(t, tx.Error)
	return tx.Statement.SQL.String(), tx.Statement.Vars
}

func TestConstraint_Where(t *testing.T) {
	tests := []struct {
		name        string
		constraint  Constraint
		expectedSQL string
		expectedVar interface{}
	}{
		{
			name:        "string equality",
			constraint:  Where("status", "==", "published"),
			expectedSQL: "data->>'status' = ?",
			expectedVar: "published",
		},
		{
			name:        "bare = is an alias of ==",
			constraint:  Where("category", "=", "painting"),
			expectedSQL: "data->>'category' = ?",
			expectedVar: "painting",
		},
		{
			name:        "inequality maps to <>",
			constraint:  Where("status", "!=", "archived"),
			expectedSQL: "data->>'status' <> ?",
			expectedVar: "archived",
		},
		{
			name:        "boolean renders as jsonb text",
			constraint:  Where("isPublic", "==", true),
			expectedSQL: "data->>'isPublic' = ?",
			expectedVar: "true",
		},
		{
			name:        "comparison operator",
			constraint:  Where("priority", ">=", 5),
			expectedSQL: "data->>'priority' >= ?",
			expectedVar: "5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, vars := buildSQL(t, tt.constraint)
			assert.Contains(t, sql, tt.expectedSQL)
			assert.Contains(t, vars, tt.expectedVar)
		})
	}
}

func TestConstraint_OrderByAndLimit(t *testing.T) {
	sql, _ := buildSQL(t, OrderBy("createdAt", true))
	assert.Contains(t, sql, "data->>'createdAt' DESC")

	sql, _ = buildSQL(t, OrderBy("title", false))
	assert.Contains(t, sql, "data->>'title' ASC")

	sql, vars := buildSQL(t, Limit(10))
	assert.Contains(t, sql, "LIMIT")
	assert.Contains(t, vars, 10)
}

func TestConstraint_Compose(t *testing.T) {
	sql, vars := buildSQL(t,
		Where("status", "==", "draft"),
		Where("isPublic", "==", false),
		OrderBy("createdAt", true),
		Limit(3),
	)

	assert.Contains(t, sql, "data->>'status' = ?")
	assert.Contains(t, sql, "data->>'isPublic' = ?")
	assert.Contains(t, sql, "data->>'createdAt' DESC")
	assert.Contains(t, vars, "draft")
	assert.Contains(t, vars, "false")
}

func TestConstraint_Invalid(t *testing.T) {
	db := newDryRunDB(t)

	tests := []struct {
		name       string
		constraint Constraint
	}{
		{"field with quote", Where("status'; --", "==", "x")},
		{"field with dash", Where("created-at", "==", "x")},
		{"empty field", Where("", "==", "x")},
		{"unsupported operator", Where("status", "like", "x")},
		{"order by invalid field", OrderBy("data->>'x'", false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.constraint.apply(db.Model(&model.Document{}))
			assert.Error(t, err)
		})
	}
}

func TestJSONText(t *testing.T) {
	assert.Equal(t, "hello", jsonText("hello"))
	assert.Equal(t, "true", jsonText(true))
	assert.Equal(t, "false", jsonText(false))
	assert.Equal(t, "42", jsonText(42))
	assert.Equal(t, "42", jsonText(int64(42)))
	assert.Equal(t, "1.5", jsonText(1.5))
}
