// Package core holds identifier types shared by the locator and its storage layers.
package core
