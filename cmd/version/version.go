package version

import (
	"encoding/json"
	"fmt"

	"github.com/clarechu/sys-assistant/src/version"
	"github.com/spf13/cobra"
)

const banner = `
   _____            ___              _      __              __
  / ___/__  _______/   |  __________(_)____/ /_____ _____  / /_
  \__ \/ / / / ___/ /| | / ___/ ___/ / ___/ __/ __ ` + "`" + `/ __ \/ __/
 ___/ / /_/ (__  ) ___ |(__  |__  ) (__  ) /_/ /_/ / / / / /_
/____/\__, /____/_/  |_/____/____/_/____/\__/\__,_/_/ /_/\__/
     /____/

系统助手 实时监控与系统维护
`

func VersionCommand(args []string) *cobra.Command {
	var output string
	versionCommand := &cobra.Command{
		Use:               "version",
		Short:             "打印版本信息",
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Info
			out := cmd.OutOrStdout()
			switch output {
			case "json":
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			case "short":
				fmt.Fprintln(out, info.String())
			default:
				fmt.Fprint(out, banner)
				fmt.Fprintln(out, "Version: \t"+info.Version)
				fmt.Fprintln(out, "GitRevision: \t"+info.GitRevision)
				fmt.Fprintln(out, "GolangVersion: \t"+info.GolangVersion)
				fmt.Fprintln(out, "BuildStatus: \t"+info.BuildStatus)
				fmt.Fprintln(out, "GitTag: \t"+info.GitTag)
				fmt.Fprintln(out, "Platform: \t"+info.Platform)
				fmt.Fprintln(out, "BuildDate: \t"+info.BuildDate)
			}
			return nil
		},
	}
	versionCommand.Flags().StringVarP(&output, "output", "o", "", "output format: one of '', short, json")
	return versionCommand
}
