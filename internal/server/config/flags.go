package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/tourgo/internal/flagx"
)

var serverFlags = []string{"-a", "-d", "-s", "-t", "-k", "-u", "-p", "-b", "-g", "-e", "-r", "-l", "-m", "-z"}

// parseFlags overlays selected Config fields from command-line flags.
//
//	-a string   HTTP bind address (":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret
//	-t int      session token validity, hours
//	-k int      RSA key size, bits
//	-u/-p       S3 user / password
//	-b/-g/-e    S3 bucket / region / endpoint
//	-r string   Redis address for the rate limiter ("" keeps it in memory)
//	-l int      identity requests per minute per client
//	-m string   assistant API key
//	-z string   display time zone
//
// args is filtered through flagx.FilterArgs first so -c/-config and flags of
// other components do not collide.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidityHours := fs.Int("t", int(config.TokenValidityDuration.Hours()), "token validity (in hours)")

	fs.IntVar(&config.RSAKeyBits, "k", config.RSAKeyBits, "RSA key size in bits")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.IntVar(&config.RateLimitPerMinute, "l", config.RateLimitPerMinute, "identity requests per minute")
	fs.StringVar(&config.AssistantAPIKey, "m", config.AssistantAPIKey, "assistant API key")
	fs.StringVar(&config.TimeZone, "z", config.TimeZone, "display time zone")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.TokenValidityDuration = time.Duration(*tokenValidityHours) * time.Hour
	return nil
}
