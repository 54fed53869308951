package core

// Provider identifies the source of a linked OAuth credential.
type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
	ProviderLine     Provider = "line"
)

// Providers returns all supported providers in a stable order.
func Providers() []Provider {
	return []Provider{ProviderGoogle, ProviderFacebook, ProviderLine}
}

// ParseProvider validates a caller-supplied provider tag.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderGoogle, ProviderFacebook, ProviderLine:
		return Provider(s), nil
	}
	return "", ErrInvalidProvider
}

// Valid reports whether p is a supported provider.
func (p Provider) Valid() bool {
	_, err := ParseProvider(string(p))
	return err == nil
}

// ProviderAccountID returns the stored account id for p, or nil if unlinked.
// Access to the per-provider columns goes through these exhaustive switches
// so that adding a provider fails to compile until every site is updated.
func (u *User) ProviderAccountID(p Provider) *string {
	switch p {
	case ProviderGoogle:
		return u.GoogleID
	case ProviderFacebook:
		return u.FacebookID
	case ProviderLine:
		return u.LineID
	}
	return nil
}

// SetProviderAccountID binds accountID to p on this record.
func (u *User) SetProviderAccountID(p Provider, accountID string) {
	switch p {
	case ProviderGoogle:
		u.GoogleID = &accountID
	case ProviderFacebook:
		u.FacebookID = &accountID
	case ProviderLine:
		u.LineID = &accountID
	}
}

// ClearProviderAccountID removes the binding for p.
func (u *User) ClearProviderAccountID(p Provider) {
	switch p {
	case ProviderGoogle:
		u.GoogleID = nil
	case ProviderFacebook:
		u.FacebookID = nil
	case ProviderLine:
		u.LineID = nil
	}
}
