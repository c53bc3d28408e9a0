package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestLedgerFlow_BalancesTrackTransactionLifecycle(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "ledger@test.com", "password123")

	// Account starts at $1,000.00
	accountID := app.createAccount(t, token, "Checking", "checking", "1000.00")
	if got := app.accountBalance(t, token, accountID); got != 100000 {
		t.Fatalf("expected initial balance 100000, got %d", got)
	}

	// Inflow of $250.50
	rec := app.request("POST", "/api/v1/transactions",
		fmt.Sprintf(`{"account_id":%q,"type":"inflow","amount":"250.50","description":"Salary","category":"Income","date":"2024-02-01"}`, accountID), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create inflow failed: %d %s", rec.Code, rec.Body.String())
	}
	inflow := parseJSON(t, rec)["transaction"].(map[string]interface{})
	inflowID := inflow["id"].(string)

	// Outflow of $99.99
	rec = app.request("POST", "/api/v1/transactions",
		fmt.Sprintf(`{"account_id":%q,"type":"outflow","amount":"99.99","description":"Groceries","category":"Food","date":"2024-02-03"}`, accountID), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create outflow failed: %d %s", rec.Code, rec.Body.String())
	}
	outflowID := parseJSON(t, rec)["transaction"].(map[string]interface{})["id"].(string)

	// 100000 + 25050 - 9999 = 115051
	if got := app.accountBalance(t, token, accountID); got != 115051 {
		t.Fatalf("expected balance 115051, got %d", got)
	}

	// Edit the inflow down to $200.00; balance drops by 5050
	rec = app.request("PUT", "/api/v1/transactions/"+inflowID,
		fmt.Sprintf(`{"account_id":%q,"type":"inflow","amount":"200.00","description":"Salary","category":"Income","date":"2024-02-01"}`, accountID), token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update failed: %d %s", rec.Code, rec.Body.String())
	}
	if got := app.accountBalance(t, token, accountID); got != 110001 {
		t.Fatalf("expected balance 110001 after edit, got %d", got)
	}

	// Move the outflow to a second account; both balances reconcile
	savingsID := app.createAccount(t, token, "Savings", "savings", "500.00")
	rec = app.request("PUT", "/api/v1/transactions/"+outflowID,
		fmt.Sprintf(`{"account_id":%q,"type":"outflow","amount":"99.99","description":"Groceries","category":"Food","date":"2024-02-03"}`, savingsID), token)
	if rec.Code != http.StatusOK {
		t.Fatalf("move failed: %d %s", rec.Code, rec.Body.String())
	}
	if got := app.accountBalance(t, token, accountID); got != 120000 {
		t.Fatalf("expected checking balance 120000 after move, got %d", got)
	}
	if got := app.accountBalance(t, token, savingsID); got != 40001 {
		t.Fatalf("expected savings balance 40001 after move, got %d", got)
	}

	// Delete the inflow; its effect is reversed
	rec = app.request("DELETE", "/api/v1/transactions/"+inflowID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete failed: %d %s", rec.Code, rec.Body.String())
	}
	if got := app.accountBalance(t, token, accountID); got != 100000 {
		t.Fatalf("expected balance 100000 after delete, got %d", got)
	}

	// A second delete finds nothing
	rec = app.request("DELETE", "/api/v1/transactions/"+inflowID, "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}

	// Listing returns the remaining transaction, newest first
	rec = app.request("GET", "/api/v1/transactions", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
	}
	list := parseJSON(t, rec)
	if list["total_items"].(float64) != 1 {
		t.Errorf("expected 1 remaining transaction, got %v", list["total_items"])
	}
}

func TestLedgerFlow_UsersCannotTouchEachOthersData(t *testing.T) {
	app := setupApp(t)
	aliceToken, _ := app.registerUser(t, "alice@test.com", "password123")
	bobToken, _ := app.registerUser(t, "bob@test.com", "password123")

	accountID := app.createAccount(t, aliceToken, "Checking", "checking", "100.00")

	rec := app.request("POST", "/api/v1/transactions",
		fmt.Sprintf(`{"account_id":%q,"type":"inflow","amount":"10.00","description":"Pay","category":"Income"}`, accountID), aliceToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
	}
	txnID := parseJSON(t, rec)["transaction"].(map[string]interface{})["id"].(string)

	// Bob cannot see Alice's account
	rec = app.request("GET", "/api/v1/accounts/"+accountID, "", bobToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign account, got %d", rec.Code)
	}

	// Bob cannot post into Alice's account
	rec = app.request("POST", "/api/v1/transactions",
		fmt.Sprintf(`{"account_id":%q,"type":"inflow","amount":"10.00","description":"X","category":"Y"}`, accountID), bobToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 posting to foreign account, got %d", rec.Code)
	}

	// Bob cannot delete Alice's transaction
	rec = app.request("DELETE", "/api/v1/transactions/"+txnID, "", bobToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting foreign transaction, got %d", rec.Code)
	}

	// Alice's balance is untouched
	if got := app.accountBalance(t, aliceToken, accountID); got != 11000 {
		t.Fatalf("expected balance 11000, got %d", got)
	}
}

func TestLedgerFlow_DuplicateAccountNameRejected(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "dup@test.com", "password123")

	app.createAccount(t, token, "Checking", "checking", "0")

	rec := app.request("POST", "/api/v1/accounts",
		`{"name":"CHECKING","type":"savings"}`, token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for case-insensitive duplicate, got %d: %s", rec.Code, rec.Body.String())
	}
}
