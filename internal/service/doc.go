// Package service implements the business logic layer for the Circle360 API.
//
// The service package contains all domain logic, validation rules, and
// orchestration of repository operations. Services are the primary
// abstraction between HTTP handlers and data access.
//
// # Service Pattern
//
// Both services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts the repository dependency
//   - Methods implement business operations with validation up front
//   - Errors are returned as sentinel errors clients can match with errors.Is
//   - Context is passed through for cancellation
//
// # Repository Interfaces
//
// Services define their own repository interfaces, allowing easy mocking for
// unit tests and decoupling from the SurrealDB implementation.
//
// # Membership Model
//
// Membership is recorded twice: the group's members array is the canonical
// roster, and each user's myGroups array is a per-user mirror carrying
// display metadata. The two sides are written by separate operations and are
// never synchronized automatically; every membership mutation is a read,
// a check, and then a write, with no locking between them. Callers own the
// pairing of group-side and user-side writes.
package service
