// Package manifest declares route trees in HCL or YAML files.
//
// HCL:
//
//	application {
//	  title = "Ember Enhanced Router"
//	}
//
//	route "members@users" {
//	  title = "All Members"
//
//	  route "show@:user_id" {
//	    title = "User {{name}}"
//	  }
//	  route "new" {
//	    title       = "New User"
//	    reset_title = true
//	  }
//	}
//
//	route "catchall@*" {}
//
// YAML:
//
//	application:
//	  title: Ember Enhanced Router
//	routes:
//	  - route: members@users
//	    title: All Members
//	    routes:
//	      - route: show@:user_id
//	        title: User {{name}}
//
// A title of false suppresses the route's token. Manifests are read from disk
// or from S3 with an s3://bucket/key source.
package manifest
