// Command libkinectone builds the flat C interface to kinectone:
//
//	go build -buildmode=c-shared -o libkinectone.so ./cmd/libkinectone
package main

func main() {}
