package rackview

import (
	"context"
	"fmt"
	"net/http"
	"time"

	httpapi "dcmonitor/internal/http"
	"dcmonitor/internal/rack"
	"dcmonitor/internal/service"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client dcmonitor API client; the session cookie lives in resty's cookie jar
type Client struct {
	httpClient *resty.Client
	username   string
	password   string
	logger     *zap.Logger
}

func NewClient(baseURL, username, password string, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		username:   username,
		password:   password,
		logger:     logger,
	}
}

// Login obtains the session cookie.
func (c *Client) Login(ctx context.Context) error {
	var result httpapi.Result[map[string]string]
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"username": c.username, "password": c.password}).
		SetResult(&result).
		SetError(&result).
		Post("/api/auth/login")
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK || result.Code != httpapi.ResultSuccess {
		return fmt.Errorf("login rejected: %s (status: %d)", result.Message, resp.StatusCode())
	}
	c.logger.Info("Logged in to dcmonitor", zap.String("username", c.username))
	return nil
}

// Heatmap fetches one room's heatmap, logging in again once on 401.
func (c *Client) Heatmap(ctx context.Context, roomID string, metric rack.MetricType) (*service.HeatmapResponse, error) {
	resp, result, err := c.getHeatmap(ctx, roomID, metric)
	if err == nil && resp.StatusCode() == http.StatusUnauthorized {
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
		resp, result, err = c.getHeatmap(ctx, roomID, metric)
	}
	if err != nil {
		c.logger.Error("Heatmap request failed", zap.String("room_id", roomID), zap.Error(err))
		return nil, fmt.Errorf("heatmap request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK || result.Code != httpapi.ResultSuccess {
		return nil, fmt.Errorf("heatmap error: %s (status: %d)", result.Message, resp.StatusCode())
	}
	return &result.Result, nil
}

func (c *Client) getHeatmap(ctx context.Context, roomID string, metric rack.MetricType) (*resty.Response, *httpapi.Result[service.HeatmapResponse], error) {
	var result httpapi.Result[service.HeatmapResponse]
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"room_id": roomID, "type": string(metric)}).
		SetResult(&result).
		SetError(&result).
		Get("/api/heatmap-data")
	return resp, &result, err
}
