// Package config provides configuration parsing for the flight server.
//
// The configuration is stored in flight.json. This package handles
// loading, saving, defaults and validation. Command-line flags override
// the values loaded here.
//
// # Configuration File Structure
//
//	{
//	  "address": ":3000",
//	  "shutdownTimeout": "30s",
//	  "site": {
//	    "title": "My Blog",
//	    "author": "Jae Doe"
//	  },
//	  "posts": {
//	    "dir": "posts",
//	    "s3": {
//	      "bucket": "my-blog",
//	      "prefix": "posts/",
//	      "region": "eu-west-1"
//	    }
//	  },
//	  "static": {
//	    "dir": "public",
//	    "prefix": "/static/"
//	  },
//	  "render": {
//	    "scripts": ["/static/client.js"],
//	    "importMap": {"react": "https://esm.sh/react@canary"}
//	  },
//	  "metrics": {"enabled": true},
//	  "dev": {"reload": true}
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Address:", cfg.Address)
package config
