package main

import (
	"context"
	"fmt"

	"github.com/trezcool/kazi/core/account"
	"github.com/trezcool/kazi/core/school"
)

func (cli *commandLine) addTeacher(ctx context.Context, username, password string) error {
	acct, err := cli.acctSvc.Register(ctx, account.NewAccount{
		Username: username,
		Password: password,
		Role:     account.RoleTeacher,
	})
	if err != nil {
		return err
	}
	fmt.Printf("teacher account %q created\n", acct.Username)
	return nil
}

func (cli *commandLine) listClasses(ctx context.Context, teacher string) error {
	classes, err := cli.queryClasses(ctx, teacher)
	if err != nil {
		return err
	}
	if len(classes) == 0 {
		fmt.Println("no classes found")
		return nil
	}
	for _, cls := range classes {
		fmt.Printf("%s  %-10s %-30s owner=%s\n", cls.ID.Hex(), cls.Code, cls.Name, cls.CreatedBy)
	}
	return nil
}

func (cli *commandLine) queryClasses(ctx context.Context, teacher string) ([]school.Class, error) {
	if teacher != "" {
		return cli.schoolSvc.FilterClassesByOwner(ctx, teacher)
	}
	return cli.schoolSvc.QueryAllClasses(ctx)
}
