package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/services"
)

// --- mock account service ---

type mockAccountService struct {
	createAccountFn     func(userID, name string, accountType models.AccountType, initialBalance int64) (*models.Account, error)
	getUserAccountsFn   func(userID string) ([]models.Account, error)
	getAccountByIDFn    func(userID, accountID string) (*models.Account, error)
	getAccountsByNameFn func(userID string) (map[string]*models.Account, error)
}

func (m *mockAccountService) CreateAccount(userID, name string, accountType models.AccountType, initialBalance int64) (*models.Account, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(userID, name, accountType, initialBalance)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) GetUserAccounts(userID string) ([]models.Account, error) {
	if m.getUserAccountsFn != nil {
		return m.getUserAccountsFn(userID)
	}
	return []models.Account{}, nil
}

func (m *mockAccountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	if m.getAccountByIDFn != nil {
		return m.getAccountByIDFn(userID, accountID)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) GetAccountsByName(userID string) (map[string]*models.Account, error) {
	if m.getAccountsByNameFn != nil {
		return m.getAccountsByNameFn(userID)
	}
	return map[string]*models.Account{}, nil
}

// verify interface compliance
var _ services.AccountServicer = (*mockAccountService)(nil)

func setupAccountRouter(handler *AccountHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID("user-1"))
	auth.POST("/accounts", handler.CreateAccount)
	auth.GET("/accounts", handler.GetAccounts)
	auth.GET("/accounts/:id", handler.GetAccount)
	return r
}

func TestAccountHandler_CreateAccount(t *testing.T) {
	t.Run("returns 201 and parses decimal initial balance", func(t *testing.T) {
		var gotBalance int64
		acctSvc := &mockAccountService{
			createAccountFn: func(userID, name string, accountType models.AccountType, initialBalance int64) (*models.Account, error) {
				gotBalance = initialBalance
				return &models.Account{
					Base:    models.Base{ID: "acct-1"},
					UserID:  userID,
					Name:    name,
					Type:    accountType,
					Balance: initialBalance,
				}, nil
			},
		}
		handler := NewAccountHandler(acctSvc)
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/accounts",
			`{"name":"Checking","type":"checking","initial_balance":"1250.75"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotBalance != 125075 {
			t.Errorf("expected 125075 cents, got %d", gotBalance)
		}
		result := parseJSON(t, rec)
		acct := result["account"].(map[string]interface{})
		if acct["name"] != "Checking" {
			t.Errorf("expected Checking, got %v", acct["name"])
		}
	})

	t.Run("accepts a negative initial balance", func(t *testing.T) {
		var gotBalance int64
		acctSvc := &mockAccountService{
			createAccountFn: func(userID, name string, accountType models.AccountType, initialBalance int64) (*models.Account, error) {
				gotBalance = initialBalance
				return &models.Account{Base: models.Base{ID: "acct-1"}}, nil
			},
		}
		handler := NewAccountHandler(acctSvc)
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/accounts",
			`{"name":"Visa","type":"credit","initial_balance":"-300.00"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotBalance != -30000 {
			t.Errorf("expected -30000 cents, got %d", gotBalance)
		}
	})

	t.Run("returns 400 on unknown account type", func(t *testing.T) {
		handler := NewAccountHandler(&mockAccountService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/accounts", `{"name":"X","type":"crypto"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on malformed initial balance", func(t *testing.T) {
		handler := NewAccountHandler(&mockAccountService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/accounts",
			`{"name":"X","type":"checking","initial_balance":"12.345"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate name", func(t *testing.T) {
		acctSvc := &mockAccountService{
			createAccountFn: func(_, _ string, _ models.AccountType, _ int64) (*models.Account, error) {
				return nil, apperrors.ErrDuplicateAccountName
			},
		}
		handler := NewAccountHandler(acctSvc)
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/accounts", `{"name":"Checking","type":"checking"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_ACCOUNT_NAME")
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewAccountHandler(&mockAccountService{})
		r := gin.New()
		r.POST("/accounts", handler.CreateAccount)

		rec := doRequest(r, "POST", "/accounts", `{"name":"X","type":"checking"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestAccountHandler_GetAccounts(t *testing.T) {
	t.Run("returns 200 with accounts", func(t *testing.T) {
		acctSvc := &mockAccountService{
			getUserAccountsFn: func(_ string) ([]models.Account, error) {
				return []models.Account{
					{Base: models.Base{ID: "acct-1"}, Name: "Checking"},
					{Base: models.Base{ID: "acct-2"}, Name: "Savings"},
				}, nil
			},
		}
		handler := NewAccountHandler(acctSvc)
		r := setupAccountRouter(handler)

		rec := doRequest(r, "GET", "/accounts", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		accounts := result["accounts"].([]interface{})
		if len(accounts) != 2 {
			t.Errorf("expected 2 accounts, got %d", len(accounts))
		}
	})
}

func TestAccountHandler_GetAccount(t *testing.T) {
	t.Run("returns 404 when missing", func(t *testing.T) {
		acctSvc := &mockAccountService{
			getAccountByIDFn: func(_, _ string) (*models.Account, error) {
				return nil, apperrors.ErrAccountNotFound
			},
		}
		handler := NewAccountHandler(acctSvc)
		r := setupAccountRouter(handler)

		rec := doRequest(r, "GET", "/accounts/missing", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ACCOUNT_NOT_FOUND")
	})
}
