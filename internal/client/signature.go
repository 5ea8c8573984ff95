package client

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"
)

// 请求体为空时的固定 SHA-256 摘要（sha256("") 的 base64）
const emptyBodyDigest = "47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU="

// 签名覆盖的自定义头
const encryptHeader = "hi-params-encrypt"

var schemeHostPattern = regexp.MustCompile(`^https?://[^/]*`)

// signatureSHA256 对待签名串做 HMAC-SHA256 并 base64
func signatureSHA256(secret, params string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(params))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// bodyDigestSHA256 计算请求体摘要，空体用固定值
func bodyDigestSHA256(body []byte) string {
	if len(body) == 0 {
		return emptyBodyDigest
	}
	sum := sha256.Sum256(body)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// gmtDate RFC1123 风格的 GMT 时间串
func gmtDate(now time.Time) string {
	return now.UTC().Format("Mon, 02 Jan 2006 15:04:05") + " GMT"
}

// requestPath 去掉 scheme 和 host，保留路径加查询串
func requestPath(rawURL string) string {
	return schemeHostPattern.ReplaceAllString(rawURL, "")
}

// signingString 按协议拼出待签名串：
// 密钥标识、请求行、Date、自定义头，各占一行
func signingString(clientID, method, path, date string) string {
	return fmt.Sprintf("%s\n%s %s\ndate: %s\n%s: %s\n",
		clientID, method, path, date, encryptHeader, clientID)
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
