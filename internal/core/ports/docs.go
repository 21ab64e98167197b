// Package ports defines the contracts between the delivery core and its
// infrastructure: repositories bound to a unit of work, the routing gateway,
// the anomaly service and the status event publisher.
//
// Repositories that read commands, packages and tours take a Scope. Regular
// callers pass the account they act for; hyper-admin code paths pass
// HyperAdmin() and see every account.
package ports
