// Package config loads the Hospital Pulse configuration.
//
// # Configuration Sources
//
// Values are resolved in this order, later sources overriding earlier ones:
//
//  1. Struct tag defaults
//  2. Environment variables prefixed with HP_
//  3. The YAML file named by HP_CONFIG_FILE, or ./config.yaml when present
//
// # Environment Variables
//
//	HP_SERVER_PORT=8080
//	HP_INGEST_ENCODING=iso-8859-1
//	HP_INGEST_MAX_UPLOAD_BYTES=33554432
//	HP_DASHBOARD_HISTOGRAM_BINS=20
//	HP_TELEMETRY_TRACE_EXPORTER=stdout
//	HP_LOGGING_LEVEL=debug
//
// # YAML File
//
//	server:
//	  port: 9000
//	ingest:
//	  encoding: utf-8
//	dashboard:
//	  chart_width: 800
package config
