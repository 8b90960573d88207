// Package auth implements registration, login and bearer-token
// authentication for the API.
//
// Passwords are stored as bcrypt hashes. Tokens are signed JWTs carrying
// the user ID as the subject claim and expire after the configured
// lifetime (one day by default). Login attempts are rate-limited per
// IP+email with a lockout window.
package auth
