// Package consent defines the decision-gate contract: a request/response
// protocol that suspends a pipeline until an external decision source
// resolves a pending round, with a deadline that resolves to denial.
package consent
