// Package services implements the driving ports: document lifecycle
// management and the claim analysis pipeline.
package services
