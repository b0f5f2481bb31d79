// Package jwt manages short-lived re-auth proof tokens: issuance and verification
// with configured signing keys and strict validation semantics.
package jwt
