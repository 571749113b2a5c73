package lib

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
	"vbs/src/config"

	"github.com/tidwall/gjson"
)

// VerifiedTransaction is the subset of the gateway's verification payload the
// platform acts on. Amount is in minor units, as reported by the gateway.
type VerifiedTransaction struct {
	ID        int64
	Reference string
	Status    string
	Amount    int64
}

func (t *VerifiedTransaction) Successful() bool {
	return t.Status == "success"
}

var gatewayHTTPClient = &http.Client{Timeout: 30 * time.Second}

// NewGatewayHTTPClient Replace gateway http client with custom implementation
func NewGatewayHTTPClient(c *http.Client) {
	gatewayHTTPClient = c
}

// VerifyTransaction pulls the status of a charge from the payment gateway by
// its reference. The gateway is the source of truth: callers never trust
// amounts or statuses supplied by the client.
func VerifyTransaction(ctx context.Context, reference string) (*VerifiedTransaction, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", config.GetGatewayBaseURL(), reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", config.GetGatewaySecretKey()))
	res, err := gatewayHTTPClient.Do(req)
	if err != nil {
		log.Printf("[gateway] Error verifying transaction %s: %s\n", reference, err.Error())
		return nil, err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		log.Printf("[gateway] Verification for %s returned status %d\n", reference, res.StatusCode)
		return nil, fmt.Errorf("gateway returned status %d", res.StatusCode)
	}
	if !gjson.GetBytes(body, "status").Bool() {
		return nil, fmt.Errorf("gateway rejected reference %s: %s", reference, gjson.GetBytes(body, "message").String())
	}
	data := gjson.GetBytes(body, "data")
	tx := &VerifiedTransaction{
		ID:        data.Get("id").Int(),
		Reference: reference,
		Status:    data.Get("status").String(),
		Amount:    data.Get("amount").Int(),
	}
	return tx, nil
}
