// Command bulk-import loads employee spreadsheets into the HR database.
package main

func main() {
	Execute()
}
