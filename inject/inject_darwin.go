//go:build darwin

package inject

import (
	"errors"
	"unicode/utf16"
	"unsafe"
)

// #cgo LDFLAGS: -framework ApplicationServices
// #include <ApplicationServices/ApplicationServices.h>
// #include <stdlib.h>
//
// static int typeUnicode(const UniChar *chars, long length) {
//     CGEventRef down = CGEventCreateKeyboardEvent(NULL, 0, true);
//     CGEventRef up = CGEventCreateKeyboardEvent(NULL, 0, false);
//     if (down == NULL || up == NULL) {
//         if (down) CFRelease(down);
//         if (up) CFRelease(up);
//         return 0;
//     }
//     CGEventKeyboardSetUnicodeString(down, length, chars);
//     CGEventKeyboardSetUnicodeString(up, length, chars);
//     CGEventPost(kCGHIDEventTap, down);
//     CGEventPost(kCGHIDEventTap, up);
//     CFRelease(down);
//     CFRelease(up);
//     return 1;
// }
//
// static int pressPasteChord(void) {
//     // kVK_ANSI_V = 9
//     CGEventRef down = CGEventCreateKeyboardEvent(NULL, 9, true);
//     CGEventRef up = CGEventCreateKeyboardEvent(NULL, 9, false);
//     if (down == NULL || up == NULL) {
//         if (down) CFRelease(down);
//         if (up) CFRelease(up);
//         return 0;
//     }
//     CGEventSetFlags(down, kCGEventFlagMaskCommand);
//     CGEventSetFlags(up, kCGEventFlagMaskCommand);
//     CGEventPost(kCGHIDEventTap, down);
//     CGEventPost(kCGHIDEventTap, up);
//     CFRelease(down);
//     CFRelease(up);
//     return 1;
// }
import "C"

// typeChunkChars bounds how many UTF-16 units go into one CGEvent.
// The event API truncates long strings silently.
const typeChunkChars = 20

type darwinInjector struct{}

func newInjectorImpl() injectorImpl { return darwinInjector{} }

func (darwinInjector) typeText(text string) error {
	units := utf16.Encode([]rune(text))
	for off := 0; off < len(units); off += typeChunkChars {
		end := off + typeChunkChars
		if end > len(units) {
			end = len(units)
		}
		chunk := units[off:end]
		ok := C.typeUnicode(
			(*C.UniChar)(unsafe.Pointer(&chunk[0])),
			C.long(len(chunk)),
		)
		if ok == 0 {
			return errors.New("create keyboard event")
		}
	}
	return nil
}

func (darwinInjector) pasteChord() error {
	if C.pressPasteChord() == 0 {
		return errors.New("create paste event")
	}
	return nil
}
