package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "xpcall",
		Short: "Invoke methods and attributes across the component bridge",
		Long: titleStyle.Render("xpcall") + mutedStyle.Render(" - invoke methods and attributes across the component bridge") + `

Arguments are parsed as YAML scalars or sequences. Use _ to leave a size
or out parameter unset and {xxxxxxxx-...} for interface identifiers.

` + mutedStyle.Render("Examples:") + `
  xpcall list                          List interfaces and members
  xpcall call do_long 5 2              Call a method
  xpcall call sum_arrays _ "[1,2]" "[3,4]"
  xpcall set short_value 12            Write an attribute
  xpcall --wasm calc.wasm --wit calc.wit call add 2 40`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(v, cmd, cfgFile)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "YAML config file")
	flags.String("wasm", "", "WebAssembly module to call instead of the test component")
	flags.String("wit", "", "WIT declarations for the module's exports")
	flags.String("interface", "", "interface to bind the target to")
	flags.BoolP("verbose", "v", false, "log dispatch state transitions")

	cmd.AddCommand(
		newCallCmd(v),
		newGetCmd(v),
		newSetCmd(v),
		newListCmd(v),
	)
	return cmd
}

// loadConfig layers flags over XPCALL_* environment variables over the
// config file.
func loadConfig(v *viper.Viper, cmd *cobra.Command, cfgFile string) error {
	v.SetEnvPrefix("XPCALL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return err
	}
	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	return nil
}

func newCallCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "call <method> [args...]",
		Short: "Call a method",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer s.close(cmd.Context())

			vals, err := parseArgs(args[1:])
			if err != nil {
				return err
			}
			res, err := s.dispatcher.Invoke(cmd.Context(), s.target, args[0], vals...)
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).result(res)
			return nil
		},
	}
}

func newGetCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "get <attribute>",
		Short: "Read an attribute or constant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer s.close(cmd.Context())

			val, err := s.dispatcher.GetAttribute(cmd.Context(), s.target, args[0])
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).value(args[0], val)
			return nil
		},
	}
}

func newSetCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "set <attribute> <value>",
		Short: "Write an attribute and read it back",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer s.close(cmd.Context())

			val, err := parseArg(args[1])
			if err != nil {
				return err
			}
			if err := s.dispatcher.SetAttribute(cmd.Context(), s.target, args[0], val); err != nil {
				return err
			}
			got, err := s.dispatcher.GetAttribute(cmd.Context(), s.target, args[0])
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).value(args[0], got)
			return nil
		},
	}
}

func newListCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the target's interfaces and members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer s.close(cmd.Context())

			newPrinter(cmd.OutOrStdout()).members(s.resolver, s.target.Interfaces())
			return nil
		},
	}
}
