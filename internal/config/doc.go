// Package config loads the configuration of a myui server.
//
// The configuration lives in myui.yaml (or myui.json) in the working
// directory. Missing fields take defaults, and MYUI_* environment variables
// override whatever the file says.
//
// # Configuration File Structure
//
//	server:
//	  host: localhost
//	  port: 3000
//	  cors_origins: ["*"]
//	log:
//	  level: info
//	  format: auto
//	store:
//	  driver: file
//	  path: db.json
//	live:
//	  path: /live
//	  ping_interval: 30s
//	metrics:
//	  enabled: true
//	  namespace: myui
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Addr:", cfg.Addr())
package config
