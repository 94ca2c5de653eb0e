package main

import "github.com/yonathan001/Appointment/cmd"

func main() {
	cmd.Execute()
}
