package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/kazi/core/account"
	"github.com/trezcool/kazi/core/school"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	acctSvc   *account.Service
	schoolSvc *school.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addteacher -username USERNAME - create a teacher account; the password will be prompted next")
	fmt.Println("  listclasses [-teacher USERNAME] - list classes, optionally scoped to a teacher")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addTeacherCmd := flag.NewFlagSet("addteacher", flag.ExitOnError)
	addTeacherUname := addTeacherCmd.String("username", "", "The teacher's username. The password will be prompted next.")

	listClassesCmd := flag.NewFlagSet("listclasses", flag.ExitOnError)
	listClassesTeacher := listClassesCmd.String("teacher", "", "Only list classes owned by this teacher.")

	switch args[1] {
	case "addteacher":
		if err := addTeacherCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addTeacherUname == "" {
			addTeacherCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addTeacherCmd.Usage()
			return errHelp
		}
		return cli.addTeacher(ctx, *addTeacherUname, string(pwd))
	case "listclasses":
		if err := listClassesCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.listClasses(ctx, *listClassesTeacher)
	default:
		cli.printUsage()
		return errHelp
	}
}
