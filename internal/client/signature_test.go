package client

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigningString(t *testing.T) {
	got := signingString("client-1", "GET", "/clife-svc/pu/get_device_status_list?timeStamp=1", "Fri, 01 Jan 2021 00:00:00 GMT")

	want := "client-1\n" +
		"GET /clife-svc/pu/get_device_status_list?timeStamp=1\n" +
		"date: Fri, 01 Jan 2021 00:00:00 GMT\n" +
		"hi-params-encrypt: client-1\n"
	assert.Equal(t, want, got)
}

func TestSignatureSHA256(t *testing.T) {
	secret := "secret-key"
	params := "client-1\nGET /path\ndate: d\nhi-params-encrypt: client-1\n"

	got := signatureSHA256(secret, params)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(params))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	assert.Equal(t, want, got)

	// 确定性：同输入同输出
	assert.Equal(t, got, signatureSHA256(secret, params))
	// 密钥不同则签名不同
	assert.NotEqual(t, got, signatureSHA256("other-key", params))
}

func TestBodyDigestSHA256(t *testing.T) {
	// 空体用协议规定的固定摘要
	assert.Equal(t, emptyBodyDigest, bodyDigestSHA256(nil))
	assert.Equal(t, emptyBodyDigest, bodyDigestSHA256([]byte{}))

	body := []byte(`{"puid":"p-1"}`)
	sum := sha256.Sum256(body)
	want := base64.StdEncoding.EncodeToString(sum[:])
	assert.Equal(t, want, bodyDigestSHA256(body))
}

func TestGmtDate(t *testing.T) {
	ts := time.Date(2021, 1, 1, 12, 30, 45, 0, time.UTC)
	assert.Equal(t, "Fri, 01 Jan 2021 12:30:45 GMT", gmtDate(ts))

	// 非 UTC 输入先归一到 UTC
	loc := time.FixedZone("CST", 8*3600)
	assert.Equal(t, "Fri, 01 Jan 2021 12:30:45 GMT", gmtDate(time.Date(2021, 1, 1, 20, 30, 45, 0, loc)))
}

func TestRequestPath(t *testing.T) {
	tests := []struct {
		rawURL string
		want   string
	}{
		{"https://connectlife.example.com/clife-svc/pu/get_device_status_list?a=1", "/clife-svc/pu/get_device_status_list?a=1"},
		{"http://host:8080/path", "/path"},
		{"https://host", ""},
		{"/already/relative", "/already/relative"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, requestPath(tt.rawURL))
	}
}

func TestMd5Hex(t *testing.T) {
	got := md5Hex("abc")
	require.Len(t, got, 32)
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", got)
}
