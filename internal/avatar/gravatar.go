package avatar

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// gravatarTimeout bounds the existence probe so registration is never held
// up by a slow third party.
const gravatarTimeout = 3 * time.Second

// GravatarURL builds the Gravatar image URL for an email address.
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=250", hex.EncodeToString(sum[:]))
}

// LookupGravatar returns the Gravatar URL for the email if the address has
// a registered image. The probe uses d=404 so unregistered addresses are
// reported as an error rather than a generated placeholder.
func LookupGravatar(ctx context.Context, email string) (string, error) {
	url := GravatarURL(email)

	ctx, cancel := context.WithTimeout(ctx, gravatarTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url+"&d=404", nil)
	if err != nil {
		return "", fmt.Errorf("failed to build gravatar request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gravatar probe failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("no gravatar for address: status %d", resp.StatusCode)
	}

	return url, nil
}
