package common

// AccessTokenCookieName is the cookie carrying the signed access token.
const AccessTokenCookieName = "falcon-assignment-access-token"

// EnvironmentProduction is the deployment environment in which cookies are
// marked Secure.
const EnvironmentProduction = "production"
