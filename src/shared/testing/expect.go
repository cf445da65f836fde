package testing

import "github.com/onsi/gomega"

func ExpectSuccess[T any](value T, err error) T {
	gomega.ExpectWithOffset(1, err).NotTo(gomega.HaveOccurred())
	return value
}
