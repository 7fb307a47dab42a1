package handler

import (
	"context"
	"net/http"
	"testing"

	"tasker/internal/domain/entity"
	domainerrors "tasker/internal/domain/errors"
	mockUC "tasker/internal/mocks/usecase"
	"tasker/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAccountTestServer(t *testing.T, caller uuid.UUID) (*echo.Echo, *mockUC.MockAccountUsecase) {
	t.Helper()

	accountUC := mockUC.NewMockAccountUsecase(t)
	h := NewAccountHandler(AccountHandlerParams{AccountUC: accountUC, Logger: discardLogger()})

	e := newTestEcho()
	g := e.Group("/account")
	if caller != uuid.Nil {
		g.Use(asCaller(caller))
	}
	g.GET("", h.GetAccount)
	g.PATCH("", h.UpdateAccount)
	g.DELETE("", h.DeleteAccount)

	return e, accountUC
}

func TestAccountHandler_GetAccount(t *testing.T) {
	account := newAccount()
	e, accountUC := newAccountTestServer(t, account.PID)

	accountUC.EXPECT().Resolve(mock.Anything, account.PID).Return(account, nil)

	rec := doRequest(e, http.MethodGet, "/account", "")

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeData[AccountResponse](t, rec)
	assert.Equal(t, account.PID, got.ID)
	assert.Equal(t, account.Email, got.Email)
}

func TestAccountHandler_NoCaller(t *testing.T) {
	e, _ := newAccountTestServer(t, uuid.Nil)

	rec := doRequest(e, http.MethodGet, "/account", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccountHandler_DeletedAccountToken(t *testing.T) {
	pid := uuid.New()
	e, accountUC := newAccountTestServer(t, pid)

	accountUC.EXPECT().Resolve(mock.Anything, pid).Return(nil, domainerrors.ErrAccountNotFound)

	rec := doRequest(e, http.MethodGet, "/account", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decodeError(t, rec).Message)
}

func TestAccountHandler_UpdateAccount(t *testing.T) {
	account := newAccount()
	e, accountUC := newAccountTestServer(t, account.PID)

	renamed := *account
	renamed.Username = "alice2"

	accountUC.EXPECT().Resolve(mock.Anything, account.PID).Return(account, nil)
	accountUC.EXPECT().
		Update(mock.Anything, account.ID, mock.Anything).
		RunAndReturn(func(_ context.Context, _ int64, input usecase.UpdateAccountInput) (*entity.Account, error) {
			require.NotNil(t, input.Username)
			assert.Equal(t, "alice2", *input.Username)
			assert.Nil(t, input.Email)
			assert.Nil(t, input.Password)

			return &renamed, nil
		})

	rec := doRequest(e, http.MethodPatch, "/account", `{"username":"alice2"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice2", decodeData[AccountResponse](t, rec).Username)
}

func TestAccountHandler_UpdateAccount_Invalid(t *testing.T) {
	account := newAccount()
	e, _ := newAccountTestServer(t, account.PID)

	rec := doRequest(e, http.MethodPatch, "/account", `{"password":"short"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAccountHandler_DeleteAccount(t *testing.T) {
	account := newAccount()
	e, accountUC := newAccountTestServer(t, account.PID)

	accountUC.EXPECT().Resolve(mock.Anything, account.PID).Return(account, nil)
	accountUC.EXPECT().Remove(mock.Anything, account.ID).Return(account, nil)

	rec := doRequest(e, http.MethodDelete, "/account", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
