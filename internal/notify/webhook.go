// Package notify реализует доставку уведомлений через внешний webhook.
//
// Внешний сервис (email/SMS-провайдер) принимает fire-and-forget POST
// с JSON-телом задания; доставка ограничена таймаутом клиента.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/petminder/petcare-backend/internal/models"
)

type WebhookClient struct {
	webhookURL string
	httpClient *http.Client
}

// NewWebhookClient создаёт клиент исходящих уведомлений.
func NewWebhookClient(webhookURL string, timeout time.Duration) *WebhookClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Deliver отправляет задание на внешний webhook. Любой не-2xx ответ
// считается ошибкой доставки, чтобы потребитель очереди мог вернуть
// сообщение на повторную обработку.
func (c *WebhookClient) Deliver(ctx context.Context, job models.NotificationJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Notification-Kind", job.Kind)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.New("unexpected status: " + resp.Status)
	}
	return nil
}
