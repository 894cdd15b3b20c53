// Package mqtt publishes reserve search progress and results to an MQTT
// broker using Eclipse Paho.
package mqtt
