// Package eventbus fans search progress out to in-process consumers such as
// the MQTT publisher and the HTTP progress endpoint.
package eventbus
