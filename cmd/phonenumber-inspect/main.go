// Command phonenumber-inspect parses phone numbers from the command line and
// prints everything the library knows about them.
//
//	phonenumber-inspect -region US "(650) 253-0000"
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	phonenumber "github.com/goliatone/go-phonenumber"
)

type inspectConfig struct {
	region   string
	locale   string
	metadata string
	geodata  string
	numbers  []string
}

func main() {
	cfg, err := parseFlags()
	if err != nil {
		reportError(err)
	}

	if err := run(cfg); err != nil {
		reportError(err)
	}
}

func reportError(err error) {
	fmt.Fprintf(os.Stderr, "phonenumber-inspect: %v\n", err)
	os.Exit(1)
}

func parseFlags() (inspectConfig, error) {
	var cfg inspectConfig

	flag.StringVar(&cfg.region, "region", "", "default region for numbers without a country code (ISO 3166-1 alpha-2)")
	flag.StringVar(&cfg.locale, "locale", "en", "locale for geographical descriptions")
	flag.StringVar(&cfg.metadata, "metadata", "", "path to a JSON or YAML numbering plan file overriding the built-in table")
	flag.StringVar(&cfg.geodata, "geodata", "", "path to a JSON or YAML geocoding prefix file overriding the built-in table")

	flag.Parse()

	cfg.numbers = flag.Args()
	if len(cfg.numbers) == 0 {
		return inspectConfig{}, errors.New("at least one phone number argument is required")
	}
	cfg.region = strings.ToUpper(strings.TrimSpace(cfg.region))
	return cfg, nil
}

func run(cfg inspectConfig) error {
	opts := []phonenumber.Option{}
	if cfg.metadata != "" {
		opts = append(opts, phonenumber.WithMetadataLoader(phonenumber.NewFileMetadataLoader(cfg.metadata)))
	}
	util, err := phonenumber.NewUtil(opts...)
	if err != nil {
		return err
	}

	var tables map[string]*phonenumber.PrefixMap
	if cfg.geodata != "" {
		tables, err = phonenumber.LoadPrefixData(cfg.geodata)
		if err != nil {
			return err
		}
	}
	geocoder, err := phonenumber.NewGeocoder(util, tables)
	if err != nil {
		return err
	}

	for i, raw := range cfg.numbers {
		if i > 0 {
			fmt.Println()
		}
		if err := inspect(util, geocoder, cfg, raw); err != nil {
			fmt.Fprintf(os.Stderr, "phonenumber-inspect: %q: %v\n", raw, err)
		}
	}
	return nil
}

func inspect(util *phonenumber.Util, geocoder *phonenumber.Geocoder, cfg inspectConfig, raw string) error {
	number, err := util.ParseAndKeepRawInput(raw, cfg.region)
	if err != nil {
		return err
	}

	fmt.Printf("input:          %s\n", raw)
	fmt.Printf("country code:   +%d\n", number.CountryCode)
	fmt.Printf("national:       %s\n", number.NationalSignificantNumber())
	if number.Extension != "" {
		fmt.Printf("extension:      %s\n", number.Extension)
	}
	fmt.Printf("region:         %s\n", util.GetRegionCodeForNumber(number))
	fmt.Printf("type:           %s\n", util.GetNumberType(number))
	fmt.Printf("valid:          %t\n", util.IsValidNumber(number))
	fmt.Printf("possible:       %s\n", util.IsPossibleNumberWithReason(number))

	fmt.Printf("E.164:          %s\n", util.Format(number, phonenumber.FormatE164))
	fmt.Printf("international:  %s\n", util.Format(number, phonenumber.FormatInternational))
	fmt.Printf("national:       %s\n", util.Format(number, phonenumber.FormatNational))
	fmt.Printf("RFC 3966:       %s\n", util.Format(number, phonenumber.FormatRFC3966))

	if description := geocoder.DescriptionForNumber(number, cfg.locale); description != "" {
		fmt.Printf("location:       %s\n", description)
	}
	return nil
}
