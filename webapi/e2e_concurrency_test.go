package webapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/amirasaad/walletd/infra/provider/paystack"
	"github.com/amirasaad/walletd/infra/repository/model"
	"github.com/amirasaad/walletd/webapi/testutils"
)

// rawTransfer posts a transfer without touching suite assertions, so it is
// safe to call from worker goroutines.
func (s *E2EWalletFlowTestSuite) rawTransfer(token, walletNumber string, amount int64) (int, error) {
	body := fmt.Sprintf(`{"wallet_number":%q,"amount":%d}`, walletNumber, amount)
	req := httptest.NewRequest("POST", "/wallet/transfer", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := s.App().Test(req, -1)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func (s *E2EWalletFlowTestSuite) fundWallet(token string, amount int64) {
	reference := s.startDeposit(token, amount)
	resp := s.sendWebhook("charge.success", reference, amount)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
}

// Opposite-direction transfers between the same two wallets grab row locks
// in ascending wallet-id order, so every pairing must complete without a
// deadlock and without creating or destroying money.
func (s *E2EWalletFlowTestSuite) TestConcurrentOppositeTransfersE2E() {
	userA := s.CreateTestUser()
	tokenA := s.LoginUser(userA)
	userB := s.CreateTestUser()
	tokenB := s.LoginUser(userB)

	s.fundWallet(tokenA, 10_000)
	s.fundWallet(tokenB, 10_000)
	numberA := s.walletNumber(userA.ID.String())
	numberB := s.walletNumber(userB.ID.String())

	const workers = 8
	type outcome struct {
		status int
		err    error
	}
	results := make(chan outcome, 2*workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			status, err := s.rawTransfer(tokenA, numberB, 300)
			results <- outcome{status, err}
		}()
		go func() {
			defer wg.Done()
			status, err := s.rawTransfer(tokenB, numberA, 500)
			results <- outcome{status, err}
		}()
	}
	wg.Wait()
	close(results)

	// Both wallets stay funded well above the in-flight totals, so every
	// transfer must commit.
	for r := range results {
		s.Require().NoError(r.err)
		s.Equal(http.StatusOK, r.status)
	}

	balanceA := s.balance(tokenA)
	balanceB := s.balance(tokenB)
	s.Equal(int64(10_000-workers*300+workers*500), balanceA)
	s.Equal(int64(10_000-workers*500+workers*300), balanceB)
	s.Equal(int64(20_000), balanceA+balanceB)
}

// Concurrent debits against one wallet may interleave any way the scheduler
// likes, but the guarded debit admits exactly as many as the balance covers
// and never lets it go below zero.
func (s *E2EWalletFlowTestSuite) TestConcurrentOverdraftE2E() {
	sender := s.CreateTestUser()
	senderToken := s.LoginUser(sender)
	recipient := s.CreateTestUser()
	recipientToken := s.LoginUser(recipient)

	s.fundWallet(senderToken, 1_000)
	s.Equal(int64(0), s.balance(recipientToken))
	recipientNumber := s.walletNumber(recipient.ID.String())

	const workers = 8
	type outcome struct {
		status int
		err    error
	}
	results := make(chan outcome, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := s.rawTransfer(senderToken, recipientNumber, 300)
			results <- outcome{status, err}
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for r := range results {
		s.Require().NoError(r.err)
		switch r.status {
		case http.StatusOK:
			succeeded++
		case http.StatusUnprocessableEntity:
			rejected++
		default:
			s.Failf("unexpected transfer status", "got %d", r.status)
		}
	}

	// 1000 covers three debits of 300; the fourth and later must bounce.
	s.Equal(3, succeeded)
	s.Equal(workers-3, rejected)

	senderBalance := s.balance(senderToken)
	recipientBalance := s.balance(recipientToken)
	s.Equal(int64(100), senderBalance)
	s.Equal(int64(900), recipientBalance)
	s.GreaterOrEqual(senderBalance, int64(0))
}

// The gateway retries aggressively and may deliver the same notification on
// several connections at once. All racers re-check the row under lock, so
// only one may credit.
func (s *E2EWalletFlowTestSuite) TestConcurrentWebhookDeliveryE2E() {
	user := s.CreateTestUser()
	token := s.LoginUser(user)
	reference := s.startDeposit(token, 5_000)

	body := fmt.Appendf(nil, `{"event":"charge.success","data":{"reference":%q,"amount":5000}}`, reference)
	signature := paystack.Sign(testutils.WebhookSecret, body)

	const deliveries = 8
	type outcome struct {
		status           int
		applied          bool
		alreadyProcessed bool
		err              error
	}
	results := make(chan outcome, deliveries)
	var wg sync.WaitGroup
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest("POST", "/wallet/webhook", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("x-paystack-signature", signature)
			resp, err := s.App().Test(req, -1)
			if err != nil {
				results <- outcome{err: err}
				return
			}
			defer resp.Body.Close()
			var decoded map[string]any
			if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
				results <- outcome{status: resp.StatusCode, err: err}
				return
			}
			data, _ := decoded["data"].(map[string]any)
			applied, _ := data["applied"].(bool)
			already, _ := data["already_processed"].(bool)
			results <- outcome{status: resp.StatusCode, applied: applied, alreadyProcessed: already}
		}()
	}
	wg.Wait()
	close(results)

	var applied, alreadyProcessed int
	for r := range results {
		s.Require().NoError(r.err)
		s.Require().Equal(http.StatusOK, r.status)
		if r.applied {
			applied++
		}
		if r.alreadyProcessed {
			alreadyProcessed++
		}
	}
	s.Equal(1, applied)
	s.Equal(deliveries-1, alreadyProcessed)

	s.Equal(int64(5_000), s.balance(token))

	var count int64
	s.Require().NoError(s.DB().Model(&model.Transaction{}).Where("reference = ?", reference).Count(&count).Error)
	s.Equal(int64(1), count)
	var tx model.Transaction
	s.Require().NoError(s.DB().First(&tx, "reference = ?", reference).Error)
	s.Equal("SUCCESS", tx.Status)
}
