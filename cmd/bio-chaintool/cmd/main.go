// Copyright 2026 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/liftover/encoding/chain"
	"github.com/grailbio/liftover/liftover"
	"v.io/x/lib/cmdline"
)

func newCmdStats() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "stats",
		Short:    "Show per-chromosome chain, block and aligned-base counts as JSON",
		ArgsName: "path",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("stats takes one pathname argument, but got %v", argv)
		}
		return stats(argv[0], os.Stdout)
	})
	return cmd
}

func newCmdChecksum() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "checksum",
		Short: `Compute a checksum of a chain file.
The checksum is a JSON string summarizing the blocks of each source chromosome.
It does not depend on how the file is compressed.`,
		ArgsName: "path",
	}
	opts := checksumOpts{}
	cmd.Flags.BoolVar(&opts.digest, "digest", false, "Also compute an order-sensitive digest of all blocks")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("checksum takes a path, but found %v", argv)
		}
		return checksum(argv[0], opts, os.Stdout)
	})
	return cmd
}

func newCmdView() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "view",
		Short:    "Print chain blocks as TSV",
		ArgsName: "path",
	}
	flags := viewFlags{
		regions: cmd.Flags.String("regions", "", `A comma-separated list of source regions to show.
Format of each region is 'chr:begin-end', 'chr:pos' or 'chr', as in samtools.
[begin,end] is a 1-based, closed interval.  Without -regions, every block is
printed in file order.`),
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("view takes one pathname argument, but got %v", argv)
		}
		return view(flags, argv[0], os.Stdout)
	})
	return cmd
}

func newCmdSizes() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "sizes",
		Short:    "Print chromosome sizes of either assembly",
		ArgsName: "path",
	}
	opts := sizesOpts{}
	cmd.Flags.BoolVar(&opts.source, "source", false, "Print the source assembly instead of the target")
	cmd.Flags.BoolVar(&opts.sam, "sam", false, "Print the target assembly as a SAM header")
	style := cmd.Flags.String("chrom-style", "asis", "Chromosome naming: 'asis', 'short' or 'long'")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("sizes takes one pathname argument, but got %v", argv)
		}
		var err error
		if opts.style, err = liftover.ParseChromStyle(*style); err != nil {
			return err
		}
		return sizes(argv[0], opts, os.Stdout)
	})
	return cmd
}

func loadChain(path string) (*chain.File, error) {
	return chain.ParseFile(path)
}

func Run() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-chaintool",
			Short:    "Tools for inspecting UCSC chain files",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdStats(),
				newCmdChecksum(),
				newCmdView(),
				newCmdSizes(),
			},
		})
}
