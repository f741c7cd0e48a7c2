package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// totpPeriod is the TOTP rotation interval in seconds.
const totpPeriod = 30

// TwoFactor manages TOTP enrollment and verification.
type TwoFactor struct {
	issuer      string
	skew        uint
	backupCount int
}

// NewTwoFactor builds the service. skewSteps is the number of adjacent time
// steps accepted on either side of now to tolerate clock drift.
func NewTwoFactor(issuer string, skewSteps, backupCount int) *TwoFactor {
	if issuer == "" {
		issuer = "SalonKit"
	}
	if skewSteps < 0 {
		skewSteps = 0
	}
	if backupCount <= 0 {
		backupCount = 10
	}
	return &TwoFactor{issuer: issuer, skew: uint(skewSteps), backupCount: backupCount}
}

// Enrollment holds everything a client needs to finish TOTP setup. Nothing is
// persisted here; the caller stores the secret and codes once the user proves
// possession with a valid code.
type Enrollment struct {
	Secret      string
	OtpauthURL  string
	QRPNGBase64 string
	BackupCodes []string
	ManualEntry string
}

// Setup generates a fresh secret, its otpauth URI rendered as a QR PNG, and a
// set of single-use backup codes. Pure generation, no side effects.
func (t *TwoFactor) Setup(accountName string) (*Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      t.issuer,
		AccountName: accountName,
	})
	if err != nil {
		return nil, err
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}

	codes, err := t.generateBackupCodes()
	if err != nil {
		return nil, err
	}

	return &Enrollment{
		Secret:      key.Secret(),
		OtpauthURL:  key.URL(),
		QRPNGBase64: base64.StdEncoding.EncodeToString(qrPNG),
		BackupCodes: codes,
		ManualEntry: manualEntry(key.Secret()),
	}, nil
}

// VerifyCode validates a 6-digit TOTP code against the secret, accepting the
// configured number of adjacent time steps. Empty input fails closed.
func (t *TwoFactor) VerifyCode(code, secret string) bool {
	code = strings.TrimSpace(code)
	if code == "" || secret == "" {
		return false
	}
	valid, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      t.skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && valid
}

// VerifyBackupCode matches the code against the remaining set, case-insensitive
// and whitespace-trimmed. On a match it returns the set with that code removed.
// Pure; the caller persists the updated set atomically.
func VerifyBackupCode(code string, remaining []string) (bool, []string) {
	normalized := NormalizeBackupCode(code)
	if normalized == "" {
		return false, remaining
	}
	for i, candidate := range remaining {
		if NormalizeBackupCode(candidate) == normalized {
			updated := make([]string, 0, len(remaining)-1)
			updated = append(updated, remaining[:i]...)
			updated = append(updated, remaining[i+1:]...)
			return true, updated
		}
	}
	return false, remaining
}

// NormalizeBackupCode trims whitespace and uppercases a submitted backup code.
func NormalizeBackupCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CurrentCode computes the code valid at this instant. Used by self-test flows.
func (t *TwoFactor) CurrentCode(secret string) (string, error) {
	return totp.GenerateCode(secret, time.Now().UTC())
}

// TimeRemaining returns the time until the current TOTP code rotates.
func TimeRemaining() time.Duration {
	elapsed := time.Now().Unix() % totpPeriod
	return time.Duration(totpPeriod-elapsed) * time.Second
}

func (t *TwoFactor) generateBackupCodes() ([]string, error) {
	codes := make([]string, 0, t.backupCount)
	buf := make([]byte, 4)
	for i := 0; i < t.backupCount; i++ {
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		raw := strings.ToUpper(hex.EncodeToString(buf))
		codes = append(codes, raw[:4]+"-"+raw[4:])
	}
	return codes, nil
}

// manualEntry groups the base32 secret into blocks of four for hand entry.
func manualEntry(secret string) string {
	var b strings.Builder
	for i, r := range secret {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
