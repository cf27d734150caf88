package auth

// User is an authenticated identity. Only UID is used for keying persisted
// reports; the rest is display data.
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// Method identifies which login variant was used.
type Method string

const (
	MethodGoogle Method = "google"
	MethodEmail  Method = "email"
	MethodNone   Method = "none"
)
