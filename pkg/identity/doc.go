// Package identity turns HS256 bearer tokens into access.Identity values.
//
// Service issues and verifies tokens with golang-jwt/jwt/v5; the subject is
// the user ID and the "org" claim the caller's home organization. Middleware
// places the verified identity in the request context where handlers read it
// with FromContext.
package identity
