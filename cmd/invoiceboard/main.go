package main

import (
	"github.com/v-starostin/invoiceboard/internal/application"
)

func main() {
	application.Run()
}
