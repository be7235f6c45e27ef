// Package config loads routemeta.json.
//
//	{
//	  "manifest": "routes.hcl",
//	  "location": "history",
//	  "display": false,
//	  "server": {"host": "localhost", "port": 3000},
//	  "log": {"level": "info", "format": "text"},
//	  "metrics": {"enabled": true, "namespace": "routemeta"},
//	  "tracing": {"enabled": false, "tracerName": "routemeta"},
//	  "s3": {"region": "us-east-1"}
//	}
//
// An empty manifest serves the built-in demo application. A manifest may be
// a local path or an s3://bucket/key URL.
package config
