package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Connectlife-LLC/Connectlife-Cloud/internal/models"
)

// Client 聚好连云端 API 客户端
// 每个请求都带系统参数并做 HMAC-SHA256 签名
type Client struct {
	httpClient   *resty.Client
	clientID     string
	clientSecret string
	baseURL      string
	oauthURL     string
	logger       *zap.Logger

	sourceMu sync.Mutex
	sourceID string
}

// New 创建云端客户端
func New(baseURL, oauthURL, clientID, clientSecret string, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second)

	return &Client{
		httpClient:   httpClient,
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      strings.TrimRight(baseURL, "/"),
		oauthURL:     strings.TrimRight(oauthURL, "/"),
		logger:       logger,
	}
}

// SourceID 本客户端实例的来源标识，首次使用时生成
func (c *Client) SourceID() string {
	c.sourceMu.Lock()
	defer c.sourceMu.Unlock()
	if c.sourceID == "" {
		seed := uuid.NewString() + strconv.FormatInt(time.Now().UnixMilli(), 10)
		c.sourceID = "td001002000" + md5Hex(seed)
	}
	return c.sourceID
}

type param struct {
	key   string
	value string
}

// systemParams 每个请求都要携带的系统参数，顺序固定
func (c *Client) systemParams(token string) []param {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	params := []param{
		{"timeStamp", ts},
		{"version", "8.1"},
		{"languageId", "1"},
		{"timezone", "UTC"},
		{"randStr", md5Hex(uuid.NewString() + ts)},
		{"appId", c.clientID},
		{"sourceId", c.SourceID()},
		{"platformId", "5"},
	}
	if token != "" {
		params = append(params, param{"accessToken", token})
	}
	return params
}

// request 执行一次签名请求，校验 resultCode 后返回原始响应体
func (c *Client) request(ctx context.Context, method, endpoint string, data map[string]any, token string) ([]byte, error) {
	fullURL := c.baseURL + endpoint
	headers := map[string]string{}
	var body []byte

	if method == http.MethodGet {
		// GET：全部参数进查询串，accessToken 单独走请求头
		if token != "" {
			headers["accessToken"] = token
		}
		var parts []string
		for key, value := range data {
			parts = append(parts, key+"="+url.QueryEscape(paramString(value)))
		}
		for _, p := range c.systemParams("") {
			parts = append(parts, p.key+"="+url.QueryEscape(p.value))
		}
		fullURL += "?" + strings.Join(parts, "&")
	} else {
		merged := make(map[string]any, len(data)+9)
		for k, v := range data {
			merged[k] = v
		}
		for _, p := range c.systemParams(token) {
			merged[p.key] = p.value
		}
		merged["platformId"] = 5
		var err error
		body, err = json.Marshal(merged)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	// 签名覆盖 请求行 + Date + 自定义头
	date := gmtDate(time.Now())
	sign := signatureSHA256(c.clientSecret, signingString(c.clientID, method, requestPath(fullURL), date))

	headers[encryptHeader] = c.clientID
	headers["Date"] = date
	headers["Content-Type"] = "application/json"
	headers["Digest"] = "SHA-256=" + bodyDigestSHA256(body)
	headers["Authorization"] = fmt.Sprintf(
		`Signature signature="%s", keyId="%s",algorithm="hmac-sha256", headers="@request-target date %s"`,
		sign, c.clientID, encryptHeader)

	c.logger.Debug("Calling ConnectLife API",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
	)

	req := c.httpClient.R().SetContext(ctx).SetHeaders(headers)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, fullURL)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	c.logger.Debug("ConnectLife API response",
		zap.String("endpoint", endpoint),
		zap.Int("status_code", resp.StatusCode()),
	)

	switch {
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return nil, fmt.Errorf("%w: http status %d", ErrAuth, resp.StatusCode())
	case resp.StatusCode() >= 400:
		return nil, fmt.Errorf("unexpected http status %d", resp.StatusCode())
	}

	var envelope struct {
		ResultCode *int   `json:"resultCode"`
		Msg        string `json:"msg"`
	}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if envelope.ResultCode == nil {
		return nil, fmt.Errorf("%w: missing resultCode", ErrMalformedResponse)
	}
	if *envelope.ResultCode != 0 {
		return nil, &APIError{Code: *envelope.ResultCode, Msg: envelope.Msg}
	}
	return resp.Body(), nil
}

func paramString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any, []any:
		b, _ := json.Marshal(t)
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

// GetDeviceStatusList 拉取设备列表及各自的当前状态
func (c *Client) GetDeviceStatusList(ctx context.Context, token string) ([]models.DeviceInfo, error) {
	body, err := c.request(ctx, http.MethodGet, "/clife-svc/pu/get_device_status_list", nil, token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch device list: %w", err)
	}
	var resp struct {
		DeviceList []models.DeviceInfo `json:"deviceList"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return resp.DeviceList, nil
}

// ControlDevice 下发属性设置，返回云端回执的 kvMap
func (c *Client) ControlDevice(ctx context.Context, puid string, properties map[string]any, token string) (map[string]string, error) {
	data := map[string]any{
		"puid":       puid,
		"properties": properties,
	}
	body, err := c.request(ctx, http.MethodPost, "/device/pu/property/set", data, token)
	if err != nil {
		return nil, fmt.Errorf("failed to control device %s: %w", puid, err)
	}
	var resp struct {
		KVMap map[string]string `json:"kvMap"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return resp.KVMap, nil
}

// GetPropertyList 查询某个 (类型码, 功能码) 的服务端能力表
func (c *Client) GetPropertyList(ctx context.Context, typeCode, featureCode, token string) ([]models.PropertyRecord, error) {
	data := map[string]any{
		"deviceTypeCode":    typeCode,
		"deviceFeatureCode": featureCode,
	}
	body, err := c.request(ctx, http.MethodGet, "/clife-svc/get_property_list", data, token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch property list: %w", err)
	}
	var resp struct {
		Properties []models.PropertyRecord `json:"properties"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return resp.Properties, nil
}

// QueryStaticData 查询静态数据（功能码含 99 的变体用它判断能力）
func (c *Client) QueryStaticData(ctx context.Context, puid, token string) (map[string]string, error) {
	body, err := c.request(ctx, http.MethodPost, "/clife-svc/pu/query_static_data", map[string]any{"puid": puid}, token)
	if err != nil {
		return nil, fmt.Errorf("failed to query static data: %w", err)
	}
	var resp struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	out := make(map[string]string, len(resp.Data))
	for k, v := range resp.Data {
		out[k] = paramString(v)
	}
	return out, nil
}

// GetHourPower 查询某日逐小时能耗
func (c *Client) GetHourPower(ctx context.Context, date, puid, token string) (map[string]any, error) {
	data := map[string]any{"date": date, "puid": puid}
	body, err := c.request(ctx, http.MethodPost, "/clife-svc/pu/get_hour_power", data, token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hour power: %w", err)
	}
	var resp struct {
		PowerConsumption map[string]any `json:"powerConsumption"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return resp.PowerConsumption, nil
}

// GetSelfCheck 查询设备自检信息
func (c *Client) GetSelfCheck(ctx context.Context, noRecord, puid, token string) (map[string]any, error) {
	data := map[string]any{"noRecord": noRecord, "puid": puid}
	body, err := c.request(ctx, http.MethodPost, "/basic/self_check/info", data, token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch self check info: %w", err)
	}
	var resp struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return resp.Data, nil
}

// RegisterPushCode 把本次会话的关联码注册到云端（推送握手第一步）
func (c *Client) RegisterPushCode(ctx context.Context, phoneCode, token string) error {
	_, err := c.request(ctx, http.MethodPost, "/clife-svc/pu/register_push_code", map[string]any{"phoneCode": phoneCode}, token)
	if err != nil {
		return fmt.Errorf("failed to register push code: %w", err)
	}
	return nil
}

// GetNotificationInfo 获取推送服务器地址、通道和心跳参数（推送握手第二步）
func (c *Client) GetNotificationInfo(ctx context.Context, phoneCode, token string) (*models.NotificationInfo, error) {
	body, err := c.request(ctx, http.MethodGet, "/clife-svc/pu/get_notification_info", map[string]any{"phoneCode": phoneCode}, token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notification info: %w", err)
	}
	var info models.NotificationInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &info, nil
}
