package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"classaction/cmd/internal/domain/database"
	"classaction/cmd/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *DefaultShareholderRepository {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenInMemory(name)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return NewShareholderRepository(db)
}

func record(company, name, email, phone string, shares int64, price string) *entity.Shareholder {
	return &entity.Shareholder{
		Company:       company,
		Name:          name,
		Email:         email,
		Phone:         phone,
		ShareCount:    shares,
		PurchasePrice: decimal.RequireFromString(price),
		IPAddress:     entity.UnknownProvenance,
		Country:       entity.UnknownProvenance,
		CreatedAt:     1_700_000_000_000,
		UpdatedAt:     1_700_000_000_000,
	}
}

func seed(t *testing.T, repo *DefaultShareholderRepository, records ...*entity.Shareholder) {
	t.Helper()
	for _, r := range records {
		require.NoError(t, repo.Insert(context.Background(), r))
	}
}

func TestInsertAssignsIncreasingIDs(t *testing.T) {
	repo := newTestRepo(t)
	a := record("atos", "Jean Dupont", "jean@x.fr", "0612345678", 100, "12.5")
	b := record("atos", "Marie Curie", "marie@x.fr", "0698765432", 5, "3")
	seed(t, repo, a, b)

	assert.Positive(t, a.ID)
	assert.Greater(t, b.ID, a.ID)
}

func TestInsertRejectsDuplicatesPerCompany(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seed(t, repo, record("atos", "Jean", "jean@x.fr", "0612345678", 1, "1"))

	err := repo.Insert(ctx, record("atos", "Other", "jean@x.fr", "0700000000", 1, "1"))
	assert.ErrorIs(t, err, ErrDuplicate)

	err = repo.Insert(ctx, record("atos", "Other", "other@x.fr", "0612345678", 1, "1"))
	assert.ErrorIs(t, err, ErrDuplicate)

	// same person, different matter
	err = repo.Insert(ctx, record("urpea", "Jean", "jean@x.fr", "0612345678", 1, "1"))
	assert.NoError(t, err)
}

func TestFindManySortsAndPages(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	for i := 0; i < 15; i++ {
		r := record("atos", fmt.Sprintf("Holder %02d", i), fmt.Sprintf("h%d@x.fr", i), fmt.Sprintf("06000000%02d", i), int64(i), "1")
		r.Loss = decimal.NewFromInt(int64(15 - i))
		seed(t, repo, r)
	}
	seed(t, repo, record("urpea", "Elsewhere", "e@x.fr", "0799999999", 1, "1"))

	page, total, err := repo.FindMany(ctx, ShareholderFilter{
		Company:   "atos",
		SortField: "loss",
		SortDir:   "ascending",
		Limit:     10,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 15, total)
	require.Len(t, page, 10)
	for i := 1; i < len(page); i++ {
		assert.True(t, page[i-1].Loss.LessThanOrEqual(page[i].Loss))
	}

	second, _, err := repo.FindMany(ctx, ShareholderFilter{
		Company:   "atos",
		SortField: "loss",
		SortDir:   "asc",
		Limit:     10,
		Offset:    10,
	})
	require.NoError(t, err)
	assert.Len(t, second, 5)
}

func TestFindManyRejectsUnknownSort(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		record("atos", "A", "a@x.fr", "01", 1, "1"),
		record("atos", "B", "b@x.fr", "02", 1, "1"),
		record("atos", "C", "c@x.fr", "03", 1, "1"),
	)

	page, total, err := repo.FindMany(context.Background(), ShareholderFilter{
		Company:   "atos",
		SortField: "1; DROP TABLE shareholders",
		SortDir:   "sideways",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 3)
	assert.Greater(t, page[0].ID, page[1].ID)
	assert.Greater(t, page[1].ID, page[2].ID)

	count, err := repo.CountTotal(context.Background(), "atos")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestFindManySearchIsLiteralAndCaseInsensitive(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		record("atos", "Jean Dupont", "jean@x.fr", "0611111111", 1, "1"),
		record("atos", "Marie", "marie_100%@x.fr", "0622222222", 1, "1"),
		record("atos", "Paul", "paul@x.fr", "0633333333", 1, "1"),
	)
	ctx := context.Background()

	page, total, err := repo.FindMany(ctx, ShareholderFilter{Company: "atos", Search: "DUPONT"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Jean Dupont", page[0].Name)

	_, total, err = repo.FindMany(ctx, ShareholderFilter{Company: "atos", Search: "100%"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = repo.FindMany(ctx, ShareholderFilter{Company: "atos", Search: "_"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = repo.FindMany(ctx, ShareholderFilter{Company: "atos", Search: "0633"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestFindByIDIsScopedToCompany(t *testing.T) {
	repo := newTestRepo(t)
	r := record("atos", "Jean", "jean@x.fr", "0612345678", 1, "1")
	seed(t, repo, r)
	ctx := context.Background()

	found, err := repo.FindByID(ctx, r.ID, "atos")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "jean@x.fr", found.Email)

	found, err = repo.FindByID(ctx, r.ID, "urpea")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestUpdateAppliesOnlyGivenFields(t *testing.T) {
	repo := newTestRepo(t)
	r := record("atos", "Jean", "jean@x.fr", "0612345678", 10, "2")
	seed(t, repo, r)
	ctx := context.Background()

	remarks := "verified"
	ok, err := repo.Update(ctx, r.ID, "atos", &ShareholderChanges{Remarks: &remarks, UpdatedAt: r.UpdatedAt + 1000})
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := repo.FindByID(ctx, r.ID, "atos")
	require.NoError(t, err)
	assert.Equal(t, "verified", found.Remarks)
	assert.Equal(t, "jean@x.fr", found.Email)
	assert.Equal(t, r.CreatedAt, found.CreatedAt)
	assert.Equal(t, r.UpdatedAt+1000, found.UpdatedAt)

	ok, err = repo.Update(ctx, r.ID, "urpea", &ShareholderChanges{Remarks: &remarks, UpdatedAt: 1})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateRejectsConflictingContact(t *testing.T) {
	repo := newTestRepo(t)
	a := record("atos", "A", "a@x.fr", "01", 1, "1")
	b := record("atos", "B", "b@x.fr", "02", 1, "1")
	seed(t, repo, a, b)

	email := "a@x.fr"
	_, err := repo.Update(context.Background(), b.ID, "atos", &ShareholderChanges{Email: &email, UpdatedAt: 1})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestDeleteIsScopedAndIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	r := record("atos", "Jean", "jean@x.fr", "0612345678", 1, "1")
	seed(t, repo, r)
	ctx := context.Background()

	deleted, err := repo.Delete(ctx, r.ID, "urpea")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.Delete(ctx, r.ID, "atos")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, r.ID, "atos")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteManyAndFindByIDs(t *testing.T) {
	repo := newTestRepo(t)
	a := record("atos", "A", "a@x.fr", "01", 1, "1")
	b := record("atos", "B", "b@x.fr", "02", 1, "1")
	c := record("urpea", "C", "c@x.fr", "03", 1, "1")
	seed(t, repo, a, b, c)
	ctx := context.Background()

	found, err := repo.FindByIDs(ctx, []int64{b.ID, a.ID, c.ID}, "atos")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, a.ID, found[0].ID)

	n, err := repo.DeleteMany(ctx, []int64{a.ID, b.ID, c.ID, 9999}, "atos")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	remaining, err := repo.CountTotal(ctx, "urpea")
	require.NoError(t, err)
	assert.EqualValues(t, 1, remaining)
}

func TestDeleteOlderThan(t *testing.T) {
	repo := newTestRepo(t)
	old := record("atos", "Old", "old@x.fr", "01", 1, "1")
	old.CreatedAt = 1000
	fresh := record("urpea", "Fresh", "fresh@x.fr", "02", 1, "1")
	fresh.CreatedAt = 5000
	seed(t, repo, old, fresh)

	n, err := repo.DeleteOlderThan(context.Background(), 2000)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	companies, err := repo.ListCompanies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"urpea"}, companies)
}

func TestAggregatesFollowMutations(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	a := record("atos", "Jean", "jean@x.fr", "0612345678", 100, "12.5")
	b := record("atos", "Marie", "marie@x.fr", "0622222222", 3, "0.1")
	seed(t, repo, a, b, record("urpea", "Other", "o@x.fr", "03", 1000, "99"))

	assertStats := func(count, shares int64, participation string) {
		t.Helper()
		n, err := repo.CountTotal(ctx, "atos")
		require.NoError(t, err)
		assert.Equal(t, count, n)

		s, err := repo.SumShares(ctx, "atos")
		require.NoError(t, err)
		assert.Equal(t, shares, s)

		p, err := repo.SumParticipation(ctx, "atos")
		require.NoError(t, err)
		assert.True(t, p.Equal(decimal.RequireFromString(participation)), "participation %s, expected %s", p, participation)

		stats, err := repo.Stats(ctx, "atos")
		require.NoError(t, err)
		assert.Equal(t, count, stats.Shareholders)
		assert.Equal(t, shares, stats.Shares)
		assert.True(t, stats.Participation.Equal(p))
	}

	assertStats(2, 103, "1250.3")

	shares := int64(10)
	_, err := repo.Update(ctx, a.ID, "atos", &ShareholderChanges{ShareCount: &shares, UpdatedAt: 1})
	require.NoError(t, err)
	assertStats(2, 13, "125.3")

	_, err = repo.Delete(ctx, b.ID, "atos")
	require.NoError(t, err)
	assertStats(1, 10, "125")

	_, err = repo.Delete(ctx, a.ID, "atos")
	require.NoError(t, err)
	assertStats(0, 0, "0")
}

func TestParticipationStaysExactAtLargeVolumes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seed(t, repo,
		record("atos", "Jean", "jean@x.fr", "0612345678", 1_000_000, "1234567.89"),
		record("atos", "Marie", "marie@x.fr", "0622222222", 999_999, "0.07"),
		record("atos", "Paul", "paul@x.fr", "0633333333", 250_000, "19.99"),
	)

	expected := decimal.RequireFromString("1234572957499.93")

	p, err := repo.SumParticipation(ctx, "atos")
	require.NoError(t, err)
	assert.True(t, p.Equal(expected), "participation %s, expected %s", p, expected)

	stats, err := repo.Stats(ctx, "atos")
	require.NoError(t, err)
	assert.True(t, stats.Participation.Equal(expected), "participation %s, expected %s", stats.Participation, expected)
}

func TestStatsByCompany(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		record("urpea", "B", "b@x.fr", "02", 4, "2.5"),
		record("atos", "A", "a@x.fr", "01", 2, "10"),
		record("atos", "C", "c@x.fr", "03", 1, "1"),
	)

	stats, err := repo.StatsByCompany(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "atos", stats[0].Company)
	assert.EqualValues(t, 2, stats[0].Shareholders)
	assert.EqualValues(t, 3, stats[0].Shares)
	assert.True(t, stats[0].Participation.Equal(decimal.NewFromInt(21)))

	assert.Equal(t, "urpea", stats[1].Company)
	assert.True(t, stats[1].Participation.Equal(decimal.NewFromInt(10)))
}

func TestFindDuplicate(t *testing.T) {
	repo := newTestRepo(t)
	r := record("atos", "Jean", "jean@x.fr", "0612345678", 1, "1")
	seed(t, repo, r)
	ctx := context.Background()

	id, err := repo.FindDuplicate(ctx, "jean@x.fr", "0000", "atos", 0)
	require.NoError(t, err)
	assert.Equal(t, r.ID, id)

	id, err = repo.FindDuplicate(ctx, "nobody@x.fr", "0612345678", "atos", 0)
	require.NoError(t, err)
	assert.Equal(t, r.ID, id)

	id, err = repo.FindDuplicate(ctx, "jean@x.fr", "0612345678", "urpea", 0)
	require.NoError(t, err)
	assert.Zero(t, id)

	id, err = repo.FindDuplicate(ctx, "jean@x.fr", "0612345678", "atos", r.ID)
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestResolveSort(t *testing.T) {
	tests := []struct {
		field, dir string
		column     string
		desc       bool
	}{
		{"loss", "asc", "loss", false},
		{"shareCount", "ASCENDING", "share_count", false},
		{"stock", "desc", "share_count", true},
		{"stockholder_name", "", "name", true},
		{"createdAt", "asc", "created_at", false},
		{"phone", "asc", "id", false},
		{"id; DROP TABLE x", "desc; --", "id", true},
	}

	for _, tt := range tests {
		column, desc := ResolveSort(tt.field, tt.dir)
		assert.Equal(t, tt.column, column, tt.field)
		assert.Equal(t, tt.desc, desc, tt.dir)
	}
}
