//go:build integration

package leads

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	leadsdomain "lead-intake-go/internal/domain/leads"
	"lead-intake-go/internal/repository/postgres/pgtest"
)

func strPtr(value string) *string {
	return &value
}

func createLead(t *testing.T, svc *leadsdomain.Service, name, email string) leadsdomain.CreateResult {
	t.Helper()
	result, err := svc.CreateLead(context.Background(), leadsdomain.CreateInput{
		FullName:     name,
		Email:        email,
		MainProduct:  "Shoes",
		BusinessType: strPtr("Retail"),
		BudgetRange:  strPtr("$1,000+"),
	})
	require.NoError(t, err)
	return result
}

func TestLeadLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(pgtest.Start(t))
	svc := leadsdomain.NewService(repo)

	created := createLead(t, svc, "Ana", "a@x.com")

	lead, err := svc.GetLead(ctx, created.RequestID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", lead.Contact.FullName)
	assert.Equal(t, "1000", lead.Budget.Decimal.String())

	err = svc.UpdateLead(ctx, created.RequestID, leadsdomain.Patch{
		Contact: leadsdomain.ContactPatch{Phone: leadsdomain.OptionalNullableString{Set: true, Value: strPtr("555-0101")}},
		Request: leadsdomain.RequestPatch{BudgetRange: leadsdomain.OptionalNullableString{Set: true}},
	})
	require.NoError(t, err)

	lead, err = svc.GetLead(ctx, created.RequestID)
	require.NoError(t, err)
	require.NotNil(t, lead.Contact.Phone)
	assert.Equal(t, "555-0101", *lead.Contact.Phone)
	assert.False(t, lead.Budget.Valid)
	assert.Nil(t, lead.BudgetRange)
	assert.Equal(t, "Shoes", lead.MainProduct)

	require.NoError(t, svc.DeleteLead(ctx, created.RequestID))

	_, err = svc.GetLead(ctx, created.RequestID)
	assert.ErrorIs(t, err, leadsdomain.ErrRequestNotFound)

	var contacts int64
	require.NoError(t, repo.db.Model(&leadsdomain.Contact{}).Count(&contacts).Error)
	assert.Zero(t, contacts)
}

func TestListLeadsSearchAndPaging(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(pgtest.Start(t))
	svc := leadsdomain.NewService(repo)

	for i := 0; i < 12; i++ {
		createLead(t, svc, "Cliente", "cliente@example.com")
	}
	createLead(t, svc, "100% Real_Name", "special@example.com")

	page, err := svc.ListLeads(ctx, leadsdomain.ListQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(13), page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, "100% Real_Name", page.Items[0].FullName)

	page, err = svc.ListLeads(ctx, leadsdomain.ListQuery{Search: "0% real_"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalItems)

	page, err = svc.ListLeads(ctx, leadsdomain.ListQuery{Search: "_"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalItems)

	page, err = svc.ListLeads(ctx, leadsdomain.ListQuery{Search: "nobody"})
	require.NoError(t, err)
	assert.Zero(t, page.TotalItems)
	assert.Zero(t, page.TotalPages)
	assert.Empty(t, page.Items)
}

func TestConcurrentSiblingDeletesReclaimContact(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(pgtest.Start(t))
	svc := leadsdomain.NewService(repo)

	contact := leadsdomain.Contact{FullName: "Ana", Email: "a@x.com"}
	require.NoError(t, repo.CreateContact(ctx, &contact))
	first := leadsdomain.Request{ContactID: contact.ID, MainProduct: "Shoes"}
	second := leadsdomain.Request{ContactID: contact.ID, MainProduct: "Bags"}
	require.NoError(t, repo.CreateRequest(ctx, &first))
	require.NoError(t, repo.CreateRequest(ctx, &second))

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, id := range []uint64{first.ID, second.ID} {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			errs <- svc.DeleteLead(ctx, id)
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	_, err := repo.GetContactForUpdate(ctx, contact.ID)
	assert.True(t, errors.Is(err, leadsdomain.ErrContactNotFound))
}

func TestForeignKeyRejectsUnknownContact(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(pgtest.Start(t))

	err := repo.CreateRequest(ctx, &leadsdomain.Request{ContactID: 999, MainProduct: "Shoes", CreatedAt: time.Now()})
	assert.Error(t, err)
}
