//go:build darwin

package clipboard

import (
	"errors"
	"sync"
	"unsafe"
)

// #cgo CFLAGS: -x objective-c
// #cgo LDFLAGS: -framework Cocoa
// #import <Cocoa/Cocoa.h>
// #include <stdlib.h>
// const char* getClipboardContent() {
//     NSPasteboard *pasteboard = [NSPasteboard generalPasteboard];
//     NSString *string = [pasteboard stringForType:NSPasteboardTypeString];
//     return [string UTF8String];
// }
// int setClipboardContent(const char *text) {
//     NSPasteboard *pasteboard = [NSPasteboard generalPasteboard];
//     [pasteboard clearContents];
//     NSString *string = [NSString stringWithUTF8String:text];
//     if (string == nil) {
//         return 0;
//     }
//     return [pasteboard setString:string forType:NSPasteboardTypeString] ? 1 : 0;
// }
import "C"

var clipboardLock sync.Mutex

func getText() (string, error) {
	clipboardLock.Lock()
	defer clipboardLock.Unlock()

	cstr := C.getClipboardContent()
	if cstr == nil {
		// Empty pasteboard, not a failure.
		return "", nil
	}
	return C.GoString(cstr), nil
}

func setText(text string) error {
	clipboardLock.Lock()
	defer clipboardLock.Unlock()

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))

	if C.setClipboardContent(ctext) == 0 {
		return errors.New("clipboard: failed to set content")
	}
	return nil
}
