package service

import (
	"bytes"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	otpPeriod = 30
	otpSkew   = 2 // steps accepted either side of now
	qrSize    = 200
)

var otpOpts = totp.ValidateOpts{
	Period:    otpPeriod,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// otpCodes returns the codes valid at now and otpSkew steps either side,
// oldest first.
func otpCodes(secret string, now time.Time) ([]string, error) {
	codes := make([]string, 0, 2*otpSkew+1)
	for k := -otpSkew; k <= otpSkew; k++ {
		code, err := totp.GenerateCodeCustom(secret, now.Add(time.Duration(k)*otpPeriod*time.Second), otpOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate otp code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

func codeMatches(code string, codes []string) bool {
	ok := 0
	for _, c := range codes {
		ok |= subtle.ConstantTimeCompare([]byte(code), []byte(c))
	}
	return ok == 1
}

func newOTPKey(issuer, account string) (*otp.Key, error) {
	return totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
		Period:      otpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
}

var base32NoPad = base32.StdEncoding.WithPadding(base32.NoPadding)

// NormalizeOTPSecret upper-cases a base32 secret and strips spaces and
// padding, rejecting anything that does not decode.
func NormalizeOTPSecret(secret string) (string, error) {
	secret = strings.ToUpper(strings.NewReplacer(" ", "", "=", "").Replace(secret))
	raw, err := base32NoPad.DecodeString(secret)
	if err != nil || len(raw) == 0 {
		return "", errors.New("invalid base32 otp secret")
	}
	return secret, nil
}

// ProvisioningURI is the otpauth:// URI for an existing secret.
func ProvisioningURI(issuer, account, secret string) (string, error) {
	secret, err := NormalizeOTPSecret(secret)
	if err != nil {
		return "", err
	}
	raw, _ := base32NoPad.DecodeString(secret)
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
		Period:      otpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
		Secret:      raw,
	})
	if err != nil {
		return "", err
	}
	return key.URL(), nil
}

// QRCodeDataURI renders an otpauth URI as a PNG data URI for an <img> tag.
func QRCodeDataURI(uri string) (string, error) {
	key, err := otp.NewKeyFromURL(uri)
	if err != nil {
		return "", fmt.Errorf("failed to parse otp uri: %w", err)
	}
	img, err := key.Image(qrSize, qrSize)
	if err != nil {
		return "", fmt.Errorf("failed to render qr code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
