// Package auth holds the credential primitives of the accounts service:
// HS256 JWTs for sessions and emailed links, password hashing with bcrypt or
// argon2id, the password strength policy and the uid codec used in links.
package auth
