// Package config provides configuration parsing for compose.
//
// The configuration is stored in compose.json. Every field is optional;
// missing fields take the defaults from New.
//
// # Configuration File Structure
//
//	{
//	  "registry": {
//	    "source": "s3",
//	    "timeout": "5s",
//	    "preload": ["layout", "card"],
//	    "s3": {
//	      "bucket": "ui-components",
//	      "prefix": "components/",
//	      "region": "eu-west-1"
//	    }
//	  },
//	  "server": {
//	    "host": "0.0.0.0",
//	    "port": 8080,
//	    "renderTimeout": "10s"
//	  },
//	  "telemetry": {
//	    "metrics": true,
//	    "tracing": false
//	  },
//	  "log": {
//	    "level": "debug",
//	    "format": "json"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
