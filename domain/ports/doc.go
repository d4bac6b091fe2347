// Package ports defines the interfaces between the broker core and its
// collaborators: persistence, identity resolution, background execution,
// auditing and caching. Implementations live under infrastructure; tests
// substitute their own.
package ports
