// Package storeauth provides the authentication subsystem of a storefront
// API: JWT cookie sessions, a two table account directory, email
// verification, and token driven password recovery.
//
// Account directory:
//   - Customers and employees live in separate Bun backed tables. Admins
//     are employees whose role column says so. Directory resolves an email
//     across both tables, customers first, and exposes the result as a
//     tagged Account union.
//
// Tokens as state:
//   - Every multi step flow carries its state inside a signed token held
//     in a cookie. Verification tokens embed the emailed challenge code,
//     recovery tokens embed the code plus the current stage, so the server
//     keeps no per flow records and a newer token simply supersedes an
//     older one.
//
// Route protection:
//   - Guard.Protected wraps Fiber routes with a role allow list. Failures
//     map onto a fixed error taxonomy (UNAUTHENTICATED, SESSION_EXPIRED,
//     INVALID_TOKEN, FORBIDDEN) and every error response shares the same
//     {kind, message} body.
package storeauth
