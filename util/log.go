package util

import (
	"log"
	"runtime"
)

var debug bool

//SetDebug toggles debug output, call once from main
func SetDebug(b bool) {
	debug = b
}

//LogDebug prints only when debug is on
func LogDebug(v ...interface{}) {
	if debug {
		log.Println(append([]interface{}{"[debug]"}, v...)...)
	}
}

//LogDebugAll prints with the caller's position, only when debug is on
func LogDebugAll(v ...interface{}) {
	if !debug {
		return
	}
	_, file, line, ok := runtime.Caller(1)
	if ok {
		log.Printf("[debug]%s:%d %v", file, line, v)
		return
	}
	log.Println(append([]interface{}{"[debug]"}, v...)...)
}

//LogInfo always prints
func LogInfo(format string, v ...interface{}) {
	log.Printf("[info]"+format, v...)
}

//LogWarn always prints
func LogWarn(format string, v ...interface{}) {
	log.Printf("[warn]"+format, v...)
}

//LogError always prints
func LogError(format string, v ...interface{}) {
	log.Printf("[error]"+format, v...)
}
