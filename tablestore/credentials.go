package tablestore

import "strings"

// Credentials holds the three values used to sign and authenticate
// every request. AccessKeyID and AccessKeySecret must be non-empty
// after trimming; all three are rejected if they contain CR or LF.
type Credentials struct {
	AccessKeyID     string
	AccessKeySecret string
	STSToken        string // optional, for temporary credentials
}

// NewCredentials trims whitespace from all three fields and validates
// them per spec.md §6.
func NewCredentials(accessKeyID, accessKeySecret, stsToken string) (Credentials, error) {
	c := Credentials{
		AccessKeyID:     strings.TrimSpace(accessKeyID),
		AccessKeySecret: strings.TrimSpace(accessKeySecret),
		STSToken:        strings.TrimSpace(stsToken),
	}
	if c.AccessKeyID == "" {
		return Credentials{}, newClientError("", "access key id is empty")
	}
	if c.AccessKeySecret == "" {
		return Credentials{}, newClientError("", "access key secret is empty")
	}
	for name, v := range map[string]string{
		"access key id":     c.AccessKeyID,
		"access key secret": c.AccessKeySecret,
		"sts token":         c.STSToken,
	} {
		if strings.ContainsAny(v, "\r\n") {
			return Credentials{}, newClientError("", "%s contains a carriage return or newline", name)
		}
	}
	return c, nil
}
