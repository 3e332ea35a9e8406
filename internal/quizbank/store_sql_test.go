package quizbank_test

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-portal/internal/db"
	"github.com/mind-engage/mindengage-portal/internal/quizbank"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })
	return dbh
}

func historyBank() quizbank.Bank {
	return quizbank.Bank{
		CourseID: "c-history",
		Meta: quizbank.BankMeta{
			TimeLimitMinutes: 8,
			DurationLabel:    "8 minutes",
			Weight:           "Practice",
			FocusAreas:       []string{"Dates", "Causes"},
			Description:      "Warm-up for {course}.",
		},
		Templates: []quizbank.QuestionTemplate{
			{Text: "When did the Berlin Wall fall?", Options: []string{"1961", "1989", "1991"}, AnswerIndex: 1},
			{Text: "Which treaty ended WWI?", Options: []string{"Versailles", "Utrecht"}, AnswerIndex: 0},
		},
	}
}

func TestSQLRegistryFallsBackBeforeLoad(t *testing.T) {
	reg := quizbank.NewSQLRegistry(openTestDB(t), quizbank.Builtin())
	require.NoError(t, reg.Reload(context.Background()))

	assert.Len(t, reg.Templates("c-data-structures"), 4)
	assert.Len(t, reg.Templates("c-history"), 3)
	assert.False(t, reg.Has("c-history"))
}

func TestSQLRegistryPutAndReload(t *testing.T) {
	ctx := context.Background()
	dbh := openTestDB(t)
	reg := quizbank.NewSQLRegistry(dbh, quizbank.Builtin())

	require.NoError(t, reg.Put(ctx, historyBank()))
	require.True(t, reg.Has("c-history"))
	tpls := reg.Templates("c-history")
	require.Len(t, tpls, 2)
	assert.Equal(t, "When did the Berlin Wall fall?", tpls[0].Text)
	assert.Equal(t, []string{"Versailles", "Utrecht"}, tpls[1].Options)
	assert.Equal(t, "Warm-up for History 101.", reg.Meta("c-history").Describe("History 101"))

	// a fresh registry sees the stored bank after Reload
	other := quizbank.NewSQLRegistry(dbh, quizbank.Builtin())
	require.NoError(t, other.Reload(ctx))
	assert.Equal(t, tpls, other.Templates("c-history"))
	assert.Equal(t, []string{"Dates", "Causes"}, other.Meta("c-history").FocusAreas)
}

func TestSQLRegistryOverridesBuiltin(t *testing.T) {
	ctx := context.Background()
	reg := quizbank.NewSQLRegistry(openTestDB(t), quizbank.Builtin())

	b := historyBank()
	b.CourseID = "c-data-structures"
	require.NoError(t, reg.Put(ctx, b))
	assert.Len(t, reg.Templates("c-data-structures"), 2)
	assert.Len(t, reg.Templates("c-algorithms"), 5, "other builtin courses stay")

	// replacing shrinks the stored template list
	b.Templates = b.Templates[:1]
	require.NoError(t, reg.Put(ctx, b))
	assert.Len(t, reg.Templates("c-data-structures"), 1)
}

func TestSQLRegistryPutRejectsInvalid(t *testing.T) {
	reg := quizbank.NewSQLRegistry(openTestDB(t), quizbank.Builtin())
	b := historyBank()
	b.Templates = nil

	err := reg.Put(context.Background(), b)
	var ve *quizbank.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.False(t, reg.Has("c-history"))
}

func TestSQLRegistryAppend(t *testing.T) {
	ctx := context.Background()
	reg := quizbank.NewSQLRegistry(openTestDB(t), quizbank.Builtin())

	b, err := reg.Append(ctx, "c-databases", quizbank.QuestionTemplate{
		Text: "Which statement removes a table?", Options: []string{"DELETE", "DROP TABLE"}, AnswerIndex: 1,
	})
	require.NoError(t, err)
	assert.Len(t, b.Templates, 5)
	assert.Len(t, reg.Templates("c-databases"), 5)
	assert.Equal(t, quizbank.Builtin().Meta("c-databases").Describe("DB"), reg.Meta("c-databases").Describe("DB"))
}
