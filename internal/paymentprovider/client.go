// Package paymentprovider реализует HTTP-клиент платёжного провайдера.
//
// Клиент используется резолвером статуса как необязательное вторичное
// подтверждение оплаты: любой сбой запроса трактуется вызывающей стороной
// как отсутствие активной подписки, а не как фатальная ошибка.
package paymentprovider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент платёжного провайдера.
func NewClient(apiURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// HasActiveSubscription запрашивает у провайдера подписки клиента по email
// и сообщает, есть ли среди них активная. Запрос ограничен таймаутом клиента
// и переданным контекстом.
func (c *Client) HasActiveSubscription(ctx context.Context, email string) (bool, error) {
	path := "/subscriptions?status=active&customer_email=" + url.QueryEscape(email)
	req, err := c.newRequest(ctx, http.MethodGet, path)
	if err != nil {
		return false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, errors.New("unexpected status: " + resp.Status)
	}

	var listResp ListSubscriptionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return false, err
	}
	for _, sub := range listResp.Items {
		if sub.Status == "active" {
			return true, nil
		}
	}
	return false, nil
}
