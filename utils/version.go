package utils

// REVISION is surfaced in every API envelope so mobile clients can flag
// stale deployments.
const REVISION = "1.4.2"
